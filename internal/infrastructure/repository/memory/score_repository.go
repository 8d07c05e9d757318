package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gridpicks/gridpicks/internal/domain/scoring"
)

type ScoreRepository struct {
	mu     sync.RWMutex
	byRace map[string][]scoring.Breakdown
}

func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{byRace: make(map[string][]scoring.Breakdown)}
}

func (r *ScoreRepository) GetByUserAndRace(_ context.Context, userID, raceID string) (scoring.Breakdown, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.byRace[raceID] {
		if row.UserID == userID {
			return row, true, nil
		}
	}
	return scoring.Breakdown{}, false, nil
}

func (r *ScoreRepository) ListByRace(_ context.Context, raceID string) ([]scoring.Breakdown, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]scoring.Breakdown(nil), r.byRace[raceID]...), nil
}

func (r *ScoreRepository) ListAll(_ context.Context) ([]scoring.Breakdown, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.Breakdown, 0)
	for _, rows := range r.byRace {
		out = append(out, rows...)
	}
	// Keyed on (race, user) so the leaderboard fold sees the same sequence
	// on every recomputation.
	sort.Slice(out, func(i, j int) bool {
		if out[i].RaceID != out[j].RaceID {
			return out[i].RaceID < out[j].RaceID
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

// ReplaceByRace swaps the whole breakdown set of a race in one step, matching
// the recompute-from-scratch contract of the scoring pass.
func (r *ScoreRepository) ReplaceByRace(_ context.Context, raceID string, rows []scoring.Breakdown) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(rows) == 0 {
		delete(r.byRace, raceID)
		return nil
	}
	r.byRace[raceID] = append([]scoring.Breakdown(nil), rows...)
	return nil
}
