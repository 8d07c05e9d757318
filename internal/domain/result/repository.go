package result

import "context"

type Repository interface {
	GetByRace(ctx context.Context, raceID string) (RaceResult, bool, error)
	Upsert(ctx context.Context, item RaceResult) error
}
