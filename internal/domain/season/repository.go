package season

import "context"

type Repository interface {
	ListDrivers(ctx context.Context) ([]Driver, error)
	ListTeams(ctx context.Context) ([]Team, error)
}
