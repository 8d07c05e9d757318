package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gridpicks/gridpicks/internal/domain/prediction"
	"github.com/gridpicks/gridpicks/internal/domain/race"
	"github.com/gridpicks/gridpicks/internal/domain/result"
	"github.com/gridpicks/gridpicks/internal/platform/logging"
)

func completedRace(raceID string) race.Race {
	return race.Race{
		ID:       raceID,
		StartsAt: time.Date(2026, time.March, 8, 15, 0, 0, 0, time.UTC),
		Status:   race.StatusRaceCompleted,
	}
}

func officialResult(raceID string) result.RaceResult {
	return result.RaceResult{
		RaceID:          raceID,
		QualifyingOrder: []string{"d1", "d2", "d3"},
		RaceOrder:       []string{"d1", "d2", "d3", "d4", "d5", "d6", "d7", "d8", "d9", "d10"},
		HadRedFlag:      false,
		BestTeamID:      "t1",
		SecondTeamID:    "t2",
	}
}

func TestEnsureRaceScoredAwardsWeekendBonus(t *testing.T) {
	t.Parallel()

	raceRepo := newStubRaceRepository(completedRace("race-bahrain"))
	resultRepo := newStubResultRepository(officialResult("race-bahrain"))
	predictionRepo := newStubPredictionRepository()
	scoreRepo := newStubScoreRepository()

	// Everything right: 101 race, 58 qualifying, 25 team, no red flag claim.
	perfect := validPrediction("user-a", "race-bahrain", 3)
	if err := predictionRepo.Upsert(context.Background(), perfect); err != nil {
		t.Fatal(err)
	}

	// Reversed race order, reversed qualifying except P2, swapped teams and
	// a wrong red flag call: 0 race, 18 qualifying, 0 team, -50 red flag.
	worst := prediction.Prediction{
		UserID:          "user-b",
		RaceID:          "race-bahrain",
		RedFlag:         true,
		QualifyingOrder: []string{"d3", "d2", "d1"},
		RaceOrder:       []string{"d10", "d9", "d8", "d7", "d6", "d5", "d4", "d3", "d2", "d1"},
		TeamPicks:       prediction.TeamPicks{Best: "t2", Second: "t1"},
	}
	if err := predictionRepo.Upsert(context.Background(), worst); err != nil {
		t.Fatal(err)
	}

	// Podium and P10 right, midfield scrambled: 59 race, 58 qualifying,
	// 25 team.
	middle := prediction.Prediction{
		UserID:          "user-c",
		RaceID:          "race-bahrain",
		QualifyingOrder: []string{"d1", "d2", "d3"},
		RaceOrder:       []string{"d1", "d2", "d3", "d5", "d4", "d7", "d6", "d9", "d8", "d10"},
		TeamPicks:       prediction.TeamPicks{Best: "t1", Second: "t2"},
	}
	if err := predictionRepo.Upsert(context.Background(), middle); err != nil {
		t.Fatal(err)
	}

	svc := NewScoringService(raceRepo, predictionRepo, resultRepo, scoreRepo, logging.NewNop())
	if err := svc.EnsureRaceScored(context.Background(), "race-bahrain"); err != nil {
		t.Fatalf("ensure race scored: %v", err)
	}

	wantTotals := map[string]int{
		"user-a": 184 + 20,
		"user-c": 142 + 15,
		"user-b": -32 + 10,
	}
	wantBonus := map[string]int{"user-a": 20, "user-c": 15, "user-b": 10}

	rows, err := scoreRepo.ListByRace(context.Background(), "race-bahrain")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 breakdowns, got %d", len(rows))
	}
	for _, row := range rows {
		if row.TotalPoints != wantTotals[row.UserID] {
			t.Errorf("user %s: total = %d, want %d", row.UserID, row.TotalPoints, wantTotals[row.UserID])
		}
		if row.WeekendBonus != wantBonus[row.UserID] {
			t.Errorf("user %s: weekend bonus = %d, want %d", row.UserID, row.WeekendBonus, wantBonus[row.UserID])
		}
	}
}

func TestEnsureRaceScoredIdempotent(t *testing.T) {
	t.Parallel()

	raceRepo := newStubRaceRepository(completedRace("race-jeddah"))
	resultRepo := newStubResultRepository(officialResult("race-jeddah"))
	predictionRepo := newStubPredictionRepository()
	scoreRepo := newStubScoreRepository()
	if err := predictionRepo.Upsert(context.Background(), validPrediction("user-a", "race-jeddah", 3)); err != nil {
		t.Fatal(err)
	}

	svc := NewScoringService(raceRepo, predictionRepo, resultRepo, scoreRepo, logging.NewNop())
	svc.ensureInterval = 0 // recompute on every call

	if err := svc.EnsureRaceScored(context.Background(), "race-jeddah"); err != nil {
		t.Fatal(err)
	}
	first, err := scoreRepo.ListByRace(context.Background(), "race-jeddah")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.EnsureRaceScored(context.Background(), "race-jeddah"); err != nil {
		t.Fatal(err)
	}
	second, err := scoreRepo.ListByRace(context.Background(), "race-jeddah")
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one breakdown per run, got %d then %d", len(first), len(second))
	}
	if first[0].TotalPoints != second[0].TotalPoints || first[0].WeekendBonus != second[0].WeekendBonus {
		t.Fatalf("recomputation drifted: %+v vs %+v", first[0], second[0])
	}
}

func TestEnsureRaceScoredNoResultIsNoop(t *testing.T) {
	t.Parallel()

	raceRepo := newStubRaceRepository(completedRace("race-imola"))
	predictionRepo := newStubPredictionRepository()
	scoreRepo := newStubScoreRepository()
	if err := predictionRepo.Upsert(context.Background(), validPrediction("user-a", "race-imola", 3)); err != nil {
		t.Fatal(err)
	}

	svc := NewScoringService(raceRepo, predictionRepo, newStubResultRepository(), scoreRepo, logging.NewNop())
	if err := svc.EnsureRaceScored(context.Background(), "race-imola"); err != nil {
		t.Fatalf("ensure without result should be a no-op, got %v", err)
	}

	rows, err := scoreRepo.ListByRace(context.Background(), "race-imola")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no breakdowns before the result arrives, got %d", len(rows))
	}
}

func TestGetBreakdownNotYetScored(t *testing.T) {
	t.Parallel()

	upcoming := race.Race{ID: "race-zandvoort", Status: race.StatusUpcoming}
	completedNoResult := completedRace("race-monza")
	raceRepo := newStubRaceRepository(upcoming, completedNoResult)
	svc := NewScoringService(raceRepo, newStubPredictionRepository(), newStubResultRepository(), newStubScoreRepository(), logging.NewNop())

	if _, err := svc.GetBreakdown(context.Background(), "user-a", "race-zandvoort"); !errors.Is(err, ErrNotYetScored) {
		t.Fatalf("expected ErrNotYetScored for an upcoming race, got %v", err)
	}
	if _, err := svc.GetBreakdown(context.Background(), "user-a", "race-monza"); !errors.Is(err, ErrNotYetScored) {
		t.Fatalf("expected ErrNotYetScored without an ingested result, got %v", err)
	}
	if _, err := svc.GetBreakdown(context.Background(), "user-a", "race-gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an unknown race, got %v", err)
	}
}

func TestGetBreakdownAbsentPredictionScoresZero(t *testing.T) {
	t.Parallel()

	raceRepo := newStubRaceRepository(completedRace("race-spa"))
	resultRepo := newStubResultRepository(officialResult("race-spa"))
	predictionRepo := newStubPredictionRepository()
	if err := predictionRepo.Upsert(context.Background(), validPrediction("user-a", "race-spa", 3)); err != nil {
		t.Fatal(err)
	}

	svc := NewScoringService(raceRepo, predictionRepo, resultRepo, newStubScoreRepository(), logging.NewNop())

	row, err := svc.GetBreakdown(context.Background(), "user-absent", "race-spa")
	if err != nil {
		t.Fatalf("breakdown for a user without a prediction: %v", err)
	}
	if row.TotalPoints != 0 || row.WeekendBonus != 0 || row.CorrectPositions != 0 {
		t.Fatalf("absent prediction must score zero, got %+v", row)
	}
	if row.UserID != "user-absent" || row.RaceID != "race-spa" {
		t.Fatalf("zero breakdown lost its identity: %+v", row)
	}
}
