package memory

import (
	"context"
	"sync"

	"github.com/gridpicks/gridpicks/internal/domain/season"
)

type SeasonRepository struct {
	mu      sync.RWMutex
	drivers []season.Driver
	teams   []season.Team
}

func NewSeasonRepository(drivers []season.Driver, teams []season.Team) *SeasonRepository {
	return &SeasonRepository{
		drivers: append([]season.Driver(nil), drivers...),
		teams:   append([]season.Team(nil), teams...),
	}
}

func (r *SeasonRepository) ListDrivers(_ context.Context) ([]season.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]season.Driver(nil), r.drivers...), nil
}

func (r *SeasonRepository) ListTeams(_ context.Context) ([]season.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]season.Team(nil), r.teams...), nil
}
