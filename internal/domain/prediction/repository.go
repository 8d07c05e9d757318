package prediction

import "context"

type Repository interface {
	GetByUserAndRace(ctx context.Context, userID, raceID string) (Prediction, bool, error)
	ListByRace(ctx context.Context, raceID string) ([]Prediction, error)
	// Upsert replaces any existing prediction for (UserID, RaceID) entirely;
	// old list entries are superseded, never merged.
	Upsert(ctx context.Context, item Prediction) error
}
