package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/gridpicks/gridpicks/internal/domain/race"
)

type RaceRepository struct {
	mu    sync.RWMutex
	items map[string]race.Race
}

func NewRaceRepository(seed ...race.Race) *RaceRepository {
	items := make(map[string]race.Race, len(seed))
	for _, item := range seed {
		items[item.ID] = cloneRace(item)
	}
	return &RaceRepository{items: items}
}

func (r *RaceRepository) List(_ context.Context) ([]race.Race, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]race.Race, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, cloneRace(item))
	}
	return out, nil
}

func (r *RaceRepository) GetByID(_ context.Context, raceID string) (race.Race, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[raceID]
	if !ok {
		return race.Race{}, false, nil
	}
	return cloneRace(item), true, nil
}

func (r *RaceRepository) Update(_ context.Context, item race.Race) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("race %s does not exist", item.ID)
	}
	r.items[item.ID] = cloneRace(item)
	return nil
}

func cloneRace(item race.Race) race.Race {
	copied := item
	if item.HadRedFlag != nil {
		flag := *item.HadRedFlag
		copied.HadRedFlag = &flag
	}
	return copied
}
