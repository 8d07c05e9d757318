package memory

import (
	"context"
	"sync"

	"github.com/gridpicks/gridpicks/internal/domain/result"
)

type ResultRepository struct {
	mu    sync.RWMutex
	items map[string]result.RaceResult
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{items: make(map[string]result.RaceResult)}
}

func (r *ResultRepository) GetByRace(_ context.Context, raceID string) (result.RaceResult, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[raceID]
	if !ok {
		return result.RaceResult{}, false, nil
	}
	return cloneResult(item), true, nil
}

func (r *ResultRepository) Upsert(_ context.Context, item result.RaceResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.RaceID] = cloneResult(item)
	return nil
}

func cloneResult(item result.RaceResult) result.RaceResult {
	copied := item
	copied.QualifyingOrder = append([]string(nil), item.QualifyingOrder...)
	copied.RaceOrder = append([]string(nil), item.RaceOrder...)
	return copied
}
