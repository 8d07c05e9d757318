package scoring

import "context"

type Repository interface {
	GetByUserAndRace(ctx context.Context, userID, raceID string) (Breakdown, bool, error)
	ListByRace(ctx context.Context, raceID string) ([]Breakdown, error)
	ListAll(ctx context.Context) ([]Breakdown, error)
	ReplaceByRace(ctx context.Context, raceID string, rows []Breakdown) error
}
