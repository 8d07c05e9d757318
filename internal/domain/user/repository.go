package user

import "context"

type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, userID string) (User, bool, error)
	Upsert(ctx context.Context, item User) error
}
