package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/gridpicks/gridpicks/internal/domain/prediction"
	"github.com/gridpicks/gridpicks/internal/domain/race"
	"github.com/gridpicks/gridpicks/internal/domain/result"
	"github.com/gridpicks/gridpicks/internal/domain/scoring"
	"github.com/gridpicks/gridpicks/internal/domain/user"
)

type stubRaceRepository struct {
	mu   sync.Mutex
	byID map[string]race.Race
}

func newStubRaceRepository(races ...race.Race) *stubRaceRepository {
	byID := make(map[string]race.Race, len(races))
	for _, item := range races {
		byID[item.ID] = item
	}
	return &stubRaceRepository{byID: byID}
}

func (s *stubRaceRepository) List(_ context.Context) ([]race.Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]race.Race, 0, len(s.byID))
	for _, item := range s.byID {
		out = append(out, item)
	}
	return out, nil
}

func (s *stubRaceRepository) GetByID(_ context.Context, raceID string) (race.Race, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.byID[raceID]
	return item, ok, nil
}

func (s *stubRaceRepository) Update(_ context.Context, item race.Race) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[item.ID] = item
	return nil
}

type stubPredictionRepository struct {
	mu    sync.Mutex
	items map[string]prediction.Prediction
}

func newStubPredictionRepository() *stubPredictionRepository {
	return &stubPredictionRepository{items: make(map[string]prediction.Prediction)}
}

func predictionStubKey(userID, raceID string) string {
	return userID + "::" + raceID
}

func (s *stubPredictionRepository) GetByUserAndRace(_ context.Context, userID, raceID string) (prediction.Prediction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[predictionStubKey(userID, raceID)]
	return item.Clone(), ok, nil
}

func (s *stubPredictionRepository) ListByRace(_ context.Context, raceID string) ([]prediction.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]prediction.Prediction, 0, len(s.items))
	for _, item := range s.items {
		if item.RaceID == raceID {
			out = append(out, item.Clone())
		}
	}
	return out, nil
}

func (s *stubPredictionRepository) Upsert(_ context.Context, item prediction.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[predictionStubKey(item.UserID, item.RaceID)] = item.Clone()
	return nil
}

type stubResultRepository struct {
	mu     sync.Mutex
	byRace map[string]result.RaceResult
}

func newStubResultRepository(results ...result.RaceResult) *stubResultRepository {
	byRace := make(map[string]result.RaceResult, len(results))
	for _, item := range results {
		byRace[item.RaceID] = item
	}
	return &stubResultRepository{byRace: byRace}
}

func (s *stubResultRepository) GetByRace(_ context.Context, raceID string) (result.RaceResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.byRace[raceID]
	return item, ok, nil
}

func (s *stubResultRepository) Upsert(_ context.Context, item result.RaceResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byRace[item.RaceID] = item
	return nil
}

type stubScoreRepository struct {
	mu     sync.Mutex
	byRace map[string][]scoring.Breakdown
}

func newStubScoreRepository() *stubScoreRepository {
	return &stubScoreRepository{byRace: make(map[string][]scoring.Breakdown)}
}

func (s *stubScoreRepository) GetByUserAndRace(_ context.Context, userID, raceID string) (scoring.Breakdown, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.byRace[raceID] {
		if row.UserID == userID {
			return row, true, nil
		}
	}
	return scoring.Breakdown{}, false, nil
}

func (s *stubScoreRepository) ListByRace(_ context.Context, raceID string) ([]scoring.Breakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scoring.Breakdown(nil), s.byRace[raceID]...), nil
}

func (s *stubScoreRepository) ListAll(_ context.Context) ([]scoring.Breakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]scoring.Breakdown, 0)
	for _, rows := range s.byRace {
		out = append(out, rows...)
	}
	return out, nil
}

func (s *stubScoreRepository) ReplaceByRace(_ context.Context, raceID string, rows []scoring.Breakdown) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byRace[raceID] = append([]scoring.Breakdown(nil), rows...)
	return nil
}

type stubUserRepository struct {
	byID map[string]user.User
}

func newStubUserRepository(users ...user.User) *stubUserRepository {
	byID := make(map[string]user.User, len(users))
	for _, item := range users {
		byID[item.ID] = item
	}
	return &stubUserRepository{byID: byID}
}

func (s *stubUserRepository) List(_ context.Context) ([]user.User, error) {
	out := make([]user.User, 0, len(s.byID))
	for _, item := range s.byID {
		out = append(out, item)
	}
	return out, nil
}

func (s *stubUserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	item, ok := s.byID[userID]
	return item, ok, nil
}

func (s *stubUserRepository) Upsert(_ context.Context, item user.User) error {
	s.byID[item.ID] = item
	return nil
}

type stubJobPublisher struct {
	mu    sync.Mutex
	paths []string
}

func (s *stubJobPublisher) Enqueue(_ context.Context, path string, _ any, _ time.Duration, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
	return nil
}

type stubResultFeed struct {
	byRace map[string]result.RaceResult
	err    error
}

func (s *stubResultFeed) FetchRaceResult(_ context.Context, raceID string) (result.RaceResult, error) {
	if s.err != nil {
		return result.RaceResult{}, s.err
	}
	return s.byRace[raceID], nil
}

type fixedIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *fixedIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return "id-" + string(rune('a'+g.next-1)), nil
}
