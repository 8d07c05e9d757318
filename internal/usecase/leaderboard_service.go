package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/gridpicks/gridpicks/internal/domain/race"
	"github.com/gridpicks/gridpicks/internal/domain/scoring"
	"github.com/gridpicks/gridpicks/internal/domain/standings"
	"github.com/gridpicks/gridpicks/internal/domain/user"
	"github.com/gridpicks/gridpicks/internal/platform/cache"
	"github.com/gridpicks/gridpicks/internal/platform/logging"
)

const (
	leaderboardCacheKey      = "leaderboard:v1"
	leaderboardEnsureWorkers = 4
)

type LeaderboardService struct {
	raceRepo  race.Repository
	scoreRepo scoring.Repository
	userRepo  user.Repository
	scoringSv *ScoringService
	cache     *cache.Store
	logger    *logging.Logger
}

func NewLeaderboardService(
	raceRepo race.Repository,
	scoreRepo scoring.Repository,
	userRepo user.Repository,
	scoringSv *ScoringService,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeaderboardService{
		raceRepo:  raceRepo,
		scoreRepo: scoreRepo,
		userRepo:  userRepo,
		scoringSv: scoringSv,
		cache:     cacheStore,
		logger:    logger,
	}
}

// GetLeaderboard folds every persisted breakdown into cumulative per-user
// entries and ranks them. Races without an ingested result are simply
// skipped: partial data for one race never blocks the rest of the season.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context) ([]standings.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetLeaderboard")
	defer span.End()

	if s.cache == nil {
		return s.buildLeaderboard(ctx)
	}

	value, err := s.cache.GetOrLoad(ctx, leaderboardCacheKey, func(ctx context.Context) (any, error) {
		return s.buildLeaderboard(ctx)
	})
	if err != nil {
		return nil, err
	}

	entries, ok := value.([]standings.Entry)
	if !ok {
		return s.buildLeaderboard(ctx)
	}
	return entries, nil
}

// Invalidate drops the cached page, e.g. after a result ingestion.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Delete(ctx, leaderboardCacheKey)
	}
}

func (s *LeaderboardService) buildLeaderboard(ctx context.Context) ([]standings.Entry, error) {
	races, err := s.raceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list races for leaderboard: %w", err)
	}

	ensure := pool.New().WithMaxGoroutines(leaderboardEnsureWorkers)
	for _, item := range races {
		if item.Status != race.StatusRaceCompleted {
			continue
		}
		raceID := item.ID
		ensure.Go(func() {
			if err := s.scoringSv.EnsureRaceScored(ctx, raceID); err != nil {
				// A race that cannot be scored yet must not block the fold
				// over the other completed races.
				s.logger.WarnContext(ctx, "ensure race scored failed", "race_id", raceID, "error", err)
			}
		})
	}
	ensure.Wait()

	rows, err := s.scoreRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list breakdowns for leaderboard: %w", err)
	}

	entries := standings.Fold(rows)

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users for leaderboard: %w", err)
	}
	nameByID := make(map[string]string, len(users))
	for _, u := range users {
		nameByID[u.ID] = u.DisplayName
	}
	for idx := range entries {
		if name, ok := nameByID[entries[idx].UserID]; ok && name != "" {
			entries[idx].DisplayName = name
			continue
		}
		entries[idx].DisplayName = entries[idx].UserID
	}

	return standings.Rank(entries), nil
}
