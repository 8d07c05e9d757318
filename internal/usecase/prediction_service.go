package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gridpicks/gridpicks/internal/domain/prediction"
	"github.com/gridpicks/gridpicks/internal/domain/race"
	idgen "github.com/gridpicks/gridpicks/internal/platform/id"
	"github.com/gridpicks/gridpicks/internal/platform/logging"
)

type PredictionService struct {
	raceRepo       race.Repository
	predictionRepo prediction.Repository
	idGenerator    idgen.Generator
	logger         *logging.Logger
	now            func() time.Time

	// submitMu serializes the lock-check-and-write sequence per
	// (user, race) key. Unrelated predictions never contend.
	mu       sync.Mutex
	submitMu map[string]*sync.Mutex
}

func NewPredictionService(
	raceRepo race.Repository,
	predictionRepo prediction.Repository,
	idGenerator idgen.Generator,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		raceRepo:       raceRepo,
		predictionRepo: predictionRepo,
		idGenerator:    idGenerator,
		logger:         logger,
		now:            time.Now,
		submitMu:       make(map[string]*sync.Mutex),
	}
}

// GetPrediction never treats "no prediction yet" as an error: absence yields
// the well-defined empty prediction for the pair.
func (s *PredictionService) GetPrediction(ctx context.Context, userID, raceID string) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.GetPrediction")
	defer span.End()

	if userID == "" || raceID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: user id and race id are required", ErrInvalidInput)
	}

	if _, found, err := s.raceRepo.GetByID(ctx, raceID); err != nil {
		return prediction.Prediction{}, fmt.Errorf("get race for prediction: %w", err)
	} else if !found {
		return prediction.Prediction{}, fmt.Errorf("%w: race %s", ErrNotFound, raceID)
	}

	item, found, err := s.predictionRepo.GetByUserAndRace(ctx, userID, raceID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get prediction: %w", err)
	}
	if !found {
		return prediction.Empty(userID, raceID), nil
	}

	return item, nil
}

// SubmitPrediction validates and stores a complete prediction, replacing any
// previous submission for the same (user, race) pair entirely. The race lock
// check and the write run under one per-key critical section so a stale lock
// check can never pair with a late write.
func (s *PredictionService) SubmitPrediction(ctx context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.SubmitPrediction")
	defer span.End()

	if item.UserID == "" || item.RaceID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: user id and race id are required", ErrInvalidInput)
	}

	unlock := s.lockKey(item.UserID, item.RaceID)
	defer unlock()

	// The race row is read inside the critical section so a concurrent
	// status advance cannot pair a stale lock check with a late write.
	raceItem, found, err := s.raceRepo.GetByID(ctx, item.RaceID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get race for submission: %w", err)
	}
	if !found {
		return prediction.Prediction{}, fmt.Errorf("%w: race %s", ErrNotFound, item.RaceID)
	}

	if err := prediction.Validate(item, raceItem.QualifyingSlots()); err != nil {
		return prediction.Prediction{}, err
	}

	if raceItem.IsLocked(s.now().UTC()) {
		return prediction.Prediction{}, fmt.Errorf("%w: %s", ErrRaceLocked, item.RaceID)
	}

	existing, exists, err := s.predictionRepo.GetByUserAndRace(ctx, item.UserID, item.RaceID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get existing prediction: %w", err)
	}
	if exists {
		item.ID = existing.ID
	}
	if item.ID == "" {
		newID, err := s.idGenerator.NewID()
		if err != nil {
			return prediction.Prediction{}, fmt.Errorf("generate prediction id: %w", err)
		}
		item.ID = newID
	}
	item.UpdatedAt = s.now().UTC()

	if err := s.predictionRepo.Upsert(ctx, item); err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}

	s.logger.InfoContext(ctx, "prediction submitted",
		"race_id", item.RaceID,
		"user_id", item.UserID,
		"red_flag", item.RedFlag,
	)
	return item, nil
}

func (s *PredictionService) lockKey(userID, raceID string) func() {
	key := userID + "::" + raceID

	s.mu.Lock()
	keyMu, ok := s.submitMu[key]
	if !ok {
		keyMu = &sync.Mutex{}
		s.submitMu[key] = keyMu
	}
	s.mu.Unlock()

	keyMu.Lock()
	return keyMu.Unlock
}
