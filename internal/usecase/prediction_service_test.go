package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gridpicks/gridpicks/internal/domain/prediction"
	"github.com/gridpicks/gridpicks/internal/domain/race"
	"github.com/gridpicks/gridpicks/internal/platform/logging"
)

func validPrediction(userID, raceID string, qualifyingSlots int) prediction.Prediction {
	drivers := []string{"d1", "d2", "d3", "d4", "d5", "d6", "d7", "d8", "d9", "d10"}
	return prediction.Prediction{
		UserID:          userID,
		RaceID:          raceID,
		RedFlag:         false,
		QualifyingOrder: append([]string(nil), drivers[:qualifyingSlots]...),
		RaceOrder:       append([]string(nil), drivers...),
		TeamPicks:       prediction.TeamPicks{Best: "t1", Second: "t2"},
	}
}

func TestSubmitPredictionLockBoundary(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.May, 24, 13, 0, 0, 0, time.UTC)
	raceRepo := newStubRaceRepository(race.Race{
		ID:       "race-monaco",
		StartsAt: start,
		Status:   race.StatusUpcoming,
	})
	svc := NewPredictionService(raceRepo, newStubPredictionRepository(), &fixedIDGenerator{}, logging.NewNop())

	svc.now = func() time.Time { return start.Add(-61 * time.Minute) }
	stored, err := svc.SubmitPrediction(context.Background(), validPrediction("user-1", "race-monaco", 3))
	if err != nil {
		t.Fatalf("submit 61 minutes before start: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("expected a generated prediction id")
	}

	svc.now = func() time.Time { return start.Add(-59 * time.Minute) }
	if _, err := svc.SubmitPrediction(context.Background(), validPrediction("user-1", "race-monaco", 3)); !errors.Is(err, ErrRaceLocked) {
		t.Fatalf("expected ErrRaceLocked 59 minutes before start, got %v", err)
	}
}

func TestSubmitPredictionLockedByStatus(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.May, 24, 13, 0, 0, 0, time.UTC)
	raceRepo := newStubRaceRepository(race.Race{
		ID:       "race-monaco",
		StartsAt: start,
		Status:   race.StatusQualifyingCompleted,
	})
	svc := NewPredictionService(raceRepo, newStubPredictionRepository(), &fixedIDGenerator{}, logging.NewNop())
	// Far before the lock time, but the lifecycle already moved on.
	svc.now = func() time.Time { return start.Add(-24 * time.Hour) }

	if _, err := svc.SubmitPrediction(context.Background(), validPrediction("user-1", "race-monaco", 3)); !errors.Is(err, ErrRaceLocked) {
		t.Fatalf("expected ErrRaceLocked once qualifying completed, got %v", err)
	}
}

func TestSubmitPredictionMalformed(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.April, 18, 19, 0, 0, 0, time.UTC)
	raceRepo := newStubRaceRepository(race.Race{
		ID:              "race-miami",
		StartsAt:        start,
		IsSprintWeekend: true,
		Status:          race.StatusUpcoming,
	})
	svc := NewPredictionService(raceRepo, newStubPredictionRepository(), &fixedIDGenerator{}, logging.NewNop())
	svc.now = func() time.Time { return start.Add(-3 * time.Hour) }

	// Three qualifying picks on a sprint weekend, which wants seven.
	item := validPrediction("user-1", "race-miami", 3)
	_, err := svc.SubmitPrediction(context.Background(), item)
	if !prediction.IsMalformed(err) {
		t.Fatalf("expected malformed prediction error, got %v", err)
	}

	item = validPrediction("user-1", "race-miami", 7)
	item.TeamPicks.Second = ""
	if _, err := svc.SubmitPrediction(context.Background(), item); !prediction.IsMalformed(err) {
		t.Fatalf("expected malformed prediction error for missing team pick, got %v", err)
	}

	item = validPrediction("user-1", "race-miami", 7)
	item.RaceOrder[9] = item.RaceOrder[0]
	if _, err := svc.SubmitPrediction(context.Background(), item); !prediction.IsMalformed(err) {
		t.Fatalf("expected malformed prediction error for duplicate driver, got %v", err)
	}
}

func TestSubmitPredictionReplacesPrevious(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.June, 7, 14, 0, 0, 0, time.UTC)
	raceRepo := newStubRaceRepository(race.Race{
		ID:       "race-montreal",
		StartsAt: start,
		Status:   race.StatusUpcoming,
	})
	predictionRepo := newStubPredictionRepository()
	svc := NewPredictionService(raceRepo, predictionRepo, &fixedIDGenerator{}, logging.NewNop())
	svc.now = func() time.Time { return start.Add(-6 * time.Hour) }

	first, err := svc.SubmitPrediction(context.Background(), validPrediction("user-1", "race-montreal", 3))
	if err != nil {
		t.Fatalf("first submission: %v", err)
	}

	second := validPrediction("user-1", "race-montreal", 3)
	second.RedFlag = true
	second.TeamPicks = prediction.TeamPicks{Best: "t3", Second: "t1"}
	replaced, err := svc.SubmitPrediction(context.Background(), second)
	if err != nil {
		t.Fatalf("second submission: %v", err)
	}
	if replaced.ID != first.ID {
		t.Fatalf("resubmission changed the prediction id: %s -> %s", first.ID, replaced.ID)
	}

	got, err := svc.GetPrediction(context.Background(), "user-1", "race-montreal")
	if err != nil {
		t.Fatalf("get prediction: %v", err)
	}
	if !got.RedFlag || got.TeamPicks.Best != "t3" {
		t.Fatalf("old submission survived the replace: %+v", got)
	}
}

// gatedPredictionRepository blocks the first Upsert until released so a
// second submission can queue on the same key while the first holds it.
type gatedPredictionRepository struct {
	*stubPredictionRepository
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *gatedPredictionRepository) Upsert(ctx context.Context, item prediction.Prediction) error {
	r.once.Do(func() {
		close(r.entered)
		<-r.release
	})
	return r.stubPredictionRepository.Upsert(ctx, item)
}

func TestSubmitPredictionSeesStatusAdvanceWhileQueued(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.May, 24, 13, 0, 0, 0, time.UTC)
	raceRepo := newStubRaceRepository(race.Race{
		ID:       "race-monaco",
		StartsAt: start,
		Status:   race.StatusUpcoming,
	})
	predRepo := &gatedPredictionRepository{
		stubPredictionRepository: newStubPredictionRepository(),
		entered:                  make(chan struct{}),
		release:                  make(chan struct{}),
	}
	svc := NewPredictionService(raceRepo, predRepo, &fixedIDGenerator{}, logging.NewNop())
	svc.now = func() time.Time { return start.Add(-6 * time.Hour) }

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.SubmitPrediction(context.Background(), validPrediction("user-1", "race-monaco", 3))
		firstErr <- err
	}()
	<-predRepo.entered

	secondErr := make(chan error, 1)
	go func() {
		_, err := svc.SubmitPrediction(context.Background(), validPrediction("user-1", "race-monaco", 3))
		secondErr <- err
	}()

	// Let the second submission queue on the key before the lifecycle
	// moves on.
	time.Sleep(50 * time.Millisecond)

	advanced, _, err := raceRepo.GetByID(context.Background(), "race-monaco")
	if err != nil {
		t.Fatalf("get race: %v", err)
	}
	advanced.Status = race.StatusQualifyingCompleted
	if err := raceRepo.Update(context.Background(), advanced); err != nil {
		t.Fatalf("advance race: %v", err)
	}
	close(predRepo.release)

	if err := <-firstErr; err != nil {
		t.Fatalf("first submission: %v", err)
	}
	if err := <-secondErr; !errors.Is(err, ErrRaceLocked) {
		t.Fatalf("expected ErrRaceLocked for a submission queued across the status advance, got %v", err)
	}
}

func TestSubmitPredictionConcurrentSameKey(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.May, 24, 13, 0, 0, 0, time.UTC)
	raceRepo := newStubRaceRepository(race.Race{
		ID:       "race-monaco",
		StartsAt: start,
		Status:   race.StatusUpcoming,
	})
	predRepo := newStubPredictionRepository()
	svc := NewPredictionService(raceRepo, predRepo, &fixedIDGenerator{}, logging.NewNop())
	svc.now = func() time.Time { return start.Add(-6 * time.Hour) }

	const workers = 16
	begin := make(chan struct{})
	errCh := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		item := validPrediction("user-1", "race-monaco", 3)
		item.RedFlag = i%2 == 0
		wg.Add(1)
		go func(item prediction.Prediction) {
			defer wg.Done()
			<-begin
			if _, err := svc.SubmitPrediction(context.Background(), item); err != nil {
				errCh <- err
			}
		}(item)
	}
	close(begin)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("concurrent submission failed: %v", err)
	}

	stored, found, err := predRepo.GetByUserAndRace(context.Background(), "user-1", "race-monaco")
	if err != nil {
		t.Fatalf("get stored prediction: %v", err)
	}
	if !found {
		t.Fatal("expected a stored prediction")
	}
	// Only the first submission in the serialized sequence generates an id;
	// every later one must observe it and reuse it.
	if stored.ID != "id-a" {
		t.Fatalf("expected every submission to reuse the first generated id, got %s", stored.ID)
	}
	if len(stored.RaceOrder) != prediction.RacePositions {
		t.Fatalf("stored prediction is torn: %d race positions", len(stored.RaceOrder))
	}
}

func TestGetPredictionAbsentIsEmpty(t *testing.T) {
	t.Parallel()

	raceRepo := newStubRaceRepository(race.Race{ID: "race-suzuka", Status: race.StatusUpcoming})
	svc := NewPredictionService(raceRepo, newStubPredictionRepository(), &fixedIDGenerator{}, logging.NewNop())

	got, err := svc.GetPrediction(context.Background(), "user-9", "race-suzuka")
	if err != nil {
		t.Fatalf("get absent prediction: %v", err)
	}
	if !got.IsEmpty() {
		t.Fatalf("expected the empty prediction, got %+v", got)
	}
	if got.UserID != "user-9" || got.RaceID != "race-suzuka" {
		t.Fatalf("empty prediction lost its identity: %+v", got)
	}
}

func TestGetPredictionUnknownRace(t *testing.T) {
	t.Parallel()

	svc := NewPredictionService(newStubRaceRepository(), newStubPredictionRepository(), &fixedIDGenerator{}, logging.NewNop())
	if _, err := svc.GetPrediction(context.Background(), "user-1", "race-nowhere"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
