package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gridpicks/gridpicks/internal/domain/prediction"
)

type PredictionRepository struct {
	mu    sync.RWMutex
	items map[string]prediction.Prediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{items: make(map[string]prediction.Prediction)}
}

func (r *PredictionRepository) GetByUserAndRace(_ context.Context, userID, raceID string) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[predictionKey(userID, raceID)]
	if !ok {
		return prediction.Prediction{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *PredictionRepository) ListByRace(_ context.Context, raceID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.items {
		if item.RaceID == raceID {
			out = append(out, item.Clone())
		}
	}
	// Same order as the Postgres repository: scoring resolves full ties by
	// input order, so iteration order must not leak through.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PredictionRepository) Upsert(_ context.Context, item prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[predictionKey(item.UserID, item.RaceID)] = item.Clone()
	return nil
}

func predictionKey(userID, raceID string) string {
	return userID + "::" + raceID
}
