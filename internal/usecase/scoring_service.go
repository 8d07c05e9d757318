package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/gridpicks/gridpicks/internal/domain/prediction"
	"github.com/gridpicks/gridpicks/internal/domain/race"
	"github.com/gridpicks/gridpicks/internal/domain/result"
	"github.com/gridpicks/gridpicks/internal/domain/scoring"
	"github.com/gridpicks/gridpicks/internal/platform/logging"
	"github.com/gridpicks/gridpicks/internal/platform/resilience"
)

const (
	defaultScoringEnsureInterval = 30 * time.Second
	defaultScoringWorkerCount    = 8
)

type ScoringService struct {
	raceRepo       race.Repository
	predictionRepo prediction.Repository
	resultRepo     result.Repository
	scoreRepo      scoring.Repository
	logger         *logging.Logger
	now            func() time.Time
	workerCount    int

	ensureFlight   resilience.SingleFlight
	ensureMu       sync.Mutex
	lastEnsureAt   map[string]time.Time
	ensureInterval time.Duration
}

func NewScoringService(
	raceRepo race.Repository,
	predictionRepo prediction.Repository,
	resultRepo result.Repository,
	scoreRepo scoring.Repository,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		raceRepo:       raceRepo,
		predictionRepo: predictionRepo,
		resultRepo:     resultRepo,
		scoreRepo:      scoreRepo,
		logger:         logger,
		now:            time.Now,
		workerCount:    defaultScoringWorkerCount,
		lastEnsureAt:   make(map[string]time.Time),
		ensureInterval: defaultScoringEnsureInterval,
	}
}

// EnsureRaceScored recomputes and persists breakdowns for a race when it has
// completed and a result is available; otherwise it is a no-op. Recomputation
// is idempotent, so calling it repeatedly is safe; a singleflight plus a
// minimum interval keeps concurrent callers from duplicating the work.
func (s *ScoringService) EnsureRaceScored(ctx context.Context, raceID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.EnsureRaceScored")
	defer span.End()

	if raceID == "" {
		return fmt.Errorf("%w: race id is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	if s.shouldSkipEnsure(raceID, now) {
		return nil
	}

	key := "scoring:ensure:" + raceID
	_, err, _ := s.ensureFlight.Do(key, func() (any, error) {
		runNow := s.now().UTC()
		if s.shouldSkipEnsure(raceID, runNow) {
			return nil, nil
		}

		scored, runErr := s.scoreRaceOnce(ctx, raceID, runNow)
		if runErr != nil {
			return nil, runErr
		}
		if scored {
			s.markEnsure(raceID, runNow)
		}
		return nil, nil
	})
	return err
}

// GetBreakdown returns the persisted breakdown for one (user, race) pair.
// A race that has not completed, or whose result has not been ingested,
// yields ErrNotYetScored. A scored race with no row for the user yields the
// all-zero breakdown an absent prediction earns.
func (s *ScoringService) GetBreakdown(ctx context.Context, userID, raceID string) (scoring.Breakdown, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.GetBreakdown")
	defer span.End()

	if userID == "" || raceID == "" {
		return scoring.Breakdown{}, fmt.Errorf("%w: user id and race id are required", ErrInvalidInput)
	}

	raceItem, found, err := s.raceRepo.GetByID(ctx, raceID)
	if err != nil {
		return scoring.Breakdown{}, fmt.Errorf("get race for breakdown: %w", err)
	}
	if !found {
		return scoring.Breakdown{}, fmt.Errorf("%w: race %s", ErrNotFound, raceID)
	}
	if raceItem.Status != race.StatusRaceCompleted {
		return scoring.Breakdown{}, fmt.Errorf("%w: race %s has not completed", ErrNotYetScored, raceID)
	}

	if _, found, err := s.resultRepo.GetByRace(ctx, raceID); err != nil {
		return scoring.Breakdown{}, fmt.Errorf("get result for breakdown: %w", err)
	} else if !found {
		return scoring.Breakdown{}, fmt.Errorf("%w: no result ingested for race %s", ErrNotYetScored, raceID)
	}

	if err := s.EnsureRaceScored(ctx, raceID); err != nil {
		return scoring.Breakdown{}, err
	}

	row, found, err := s.scoreRepo.GetByUserAndRace(ctx, userID, raceID)
	if err != nil {
		return scoring.Breakdown{}, fmt.Errorf("get breakdown: %w", err)
	}
	if !found {
		return scoring.Breakdown{RaceID: raceID, UserID: userID}, nil
	}

	return row, nil
}

// scoreRaceOnce runs the two scoring phases: an independent per-prediction
// pass on a worker pool, then the race-wide weekend bonus pass, which must
// see every subtotal before any bonus is assigned.
func (s *ScoringService) scoreRaceOnce(ctx context.Context, raceID string, now time.Time) (bool, error) {
	raceItem, found, err := s.raceRepo.GetByID(ctx, raceID)
	if err != nil {
		return false, fmt.Errorf("get race for scoring: %w", err)
	}
	if !found {
		return false, fmt.Errorf("%w: race %s", ErrNotFound, raceID)
	}
	if raceItem.Status != race.StatusRaceCompleted {
		return false, nil
	}

	actual, found, err := s.resultRepo.GetByRace(ctx, raceID)
	if err != nil {
		return false, fmt.Errorf("get result for scoring: %w", err)
	}
	if !found {
		return false, nil
	}

	predictions, err := s.predictionRepo.ListByRace(ctx, raceID)
	if err != nil {
		return false, fmt.Errorf("list predictions for scoring: %w", err)
	}
	if len(predictions) == 0 {
		if err := s.scoreRepo.ReplaceByRace(ctx, raceID, nil); err != nil {
			return false, fmt.Errorf("clear breakdowns: %w", err)
		}
		return true, nil
	}

	rows := make([]scoring.Breakdown, len(predictions))
	slots := raceItem.QualifyingSlots()

	workerCount := s.workerCount
	if workerCount > len(predictions) {
		workerCount = len(predictions)
	}
	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return false, fmt.Errorf("create scoring worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for idx, item := range predictions {
		idx, item := idx, item
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()
			row := scoring.Score(item, actual, slots)
			row.CalculatedAt = now
			rows[idx] = row
		}); err != nil {
			workers.Done()
			return false, fmt.Errorf("submit scoring task: %w", err)
		}
	}
	workers.Wait()

	scoring.ApplyWeekendBonus(rows)

	if err := s.scoreRepo.ReplaceByRace(ctx, raceID, rows); err != nil {
		return false, fmt.Errorf("replace breakdowns: %w", err)
	}

	s.logger.InfoContext(ctx, "race scored",
		"race_id", raceID,
		"predictions", len(predictions),
	)
	return true, nil
}

func (s *ScoringService) shouldSkipEnsure(raceID string, now time.Time) bool {
	if s.ensureInterval <= 0 || raceID == "" {
		return false
	}
	s.ensureMu.Lock()
	defer s.ensureMu.Unlock()
	last, ok := s.lastEnsureAt[raceID]
	if !ok || last.IsZero() {
		return false
	}
	return now.Sub(last) < s.ensureInterval
}

func (s *ScoringService) markEnsure(raceID string, now time.Time) {
	if raceID == "" {
		return
	}
	s.ensureMu.Lock()
	s.lastEnsureAt[raceID] = now
	s.ensureMu.Unlock()
}
