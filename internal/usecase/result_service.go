package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gridpicks/gridpicks/internal/domain/race"
	"github.com/gridpicks/gridpicks/internal/domain/result"
	"github.com/gridpicks/gridpicks/internal/platform/logging"
)

// JobPublisher enqueues a delayed internal job through the message queue.
type JobPublisher interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

// ResultFeed pulls an official race outcome from the motorsport data
// provider.
type ResultFeed interface {
	FetchRaceResult(ctx context.Context, raceID string) (result.RaceResult, error)
}

type ResultService struct {
	raceRepo    race.Repository
	resultRepo  result.Repository
	feed        ResultFeed
	publisher   JobPublisher
	leaderboard *LeaderboardService
	logger      *logging.Logger
	now         func() time.Time
}

func NewResultService(
	raceRepo race.Repository,
	resultRepo result.Repository,
	feed ResultFeed,
	publisher JobPublisher,
	leaderboard *LeaderboardService,
	logger *logging.Logger,
) *ResultService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResultService{
		raceRepo:    raceRepo,
		resultRepo:  resultRepo,
		feed:        feed,
		publisher:   publisher,
		leaderboard: leaderboard,
		logger:      logger,
		now:         time.Now,
	}
}

// Ingest stores the actual outcome of a completed race and queues the
// scoring job. Re-ingesting the same race replaces the stored result;
// scoring is idempotent over it.
func (s *ResultService) Ingest(ctx context.Context, item result.RaceResult) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.Ingest")
	defer span.End()

	if item.RaceID == "" {
		return fmt.Errorf("%w: race id is required", ErrInvalidInput)
	}

	raceItem, found, err := s.raceRepo.GetByID(ctx, item.RaceID)
	if err != nil {
		return fmt.Errorf("get race for result: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: race %s", ErrNotFound, item.RaceID)
	}
	if raceItem.Status != race.StatusRaceCompleted {
		return fmt.Errorf("%w: race %s has not completed", ErrInvalidInput, item.RaceID)
	}

	if err := item.Validate(raceItem.QualifyingSlots()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	item.IngestedAt = s.now().UTC()
	if err := s.resultRepo.Upsert(ctx, item); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}

	hadRedFlag := item.HadRedFlag
	raceItem.HadRedFlag = &hadRedFlag
	if err := s.raceRepo.Update(ctx, raceItem); err != nil {
		return fmt.Errorf("update race red flag: %w", err)
	}

	if s.leaderboard != nil {
		s.leaderboard.Invalidate(ctx)
	}

	if s.publisher != nil {
		dedupID := "score-race-" + item.RaceID
		if err := s.publisher.Enqueue(ctx, "/v1/internal/jobs/score-race", map[string]string{"raceId": item.RaceID}, 0, dedupID); err != nil {
			// Scoring is also ensured lazily on read, so a queue outage
			// only delays the recomputation.
			s.logger.WarnContext(ctx, "enqueue score-race job failed", "race_id", item.RaceID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "race result ingested",
		"race_id", item.RaceID,
		"red_flag", item.HadRedFlag,
	)
	return nil
}

// SyncFromFeed pulls the official result for a race from the data provider
// and ingests it.
func (s *ResultService) SyncFromFeed(ctx context.Context, raceID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.SyncFromFeed")
	defer span.End()

	if s.feed == nil {
		return fmt.Errorf("%w: result feed is not configured", ErrDependencyUnavailable)
	}
	if raceID == "" {
		return fmt.Errorf("%w: race id is required", ErrInvalidInput)
	}

	item, err := s.feed.FetchRaceResult(ctx, raceID)
	if err != nil {
		return fmt.Errorf("fetch result from feed: %w", err)
	}
	item.RaceID = raceID

	return s.Ingest(ctx, item)
}

// GetResult exposes the stored outcome for a race, if any.
func (s *ResultService) GetResult(ctx context.Context, raceID string) (result.RaceResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.GetResult")
	defer span.End()

	if raceID == "" {
		return result.RaceResult{}, fmt.Errorf("%w: race id is required", ErrInvalidInput)
	}

	item, found, err := s.resultRepo.GetByRace(ctx, raceID)
	if err != nil {
		return result.RaceResult{}, fmt.Errorf("get result: %w", err)
	}
	if !found {
		return result.RaceResult{}, fmt.Errorf("%w: no result for race %s", ErrNotYetScored, raceID)
	}

	return item, nil
}
