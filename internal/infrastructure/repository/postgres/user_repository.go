package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridpicks/gridpicks/internal/domain/user"
	qb "github.com/gridpicks/gridpicks/internal/platform/querybuilder"
)

type userTableModel struct {
	ID          string `db:"id"`
	DisplayName string `db:"display_name"`
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query, args, err := qb.Select("id", "display_name").
		From("users").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, user.User{ID: row.ID, DisplayName: row.DisplayName})
	}
	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	query, args, err := qb.Select("id", "display_name").
		From("users").
		Where(qb.Eq("id", userID)).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user: %w", err)
	}

	return user.User{ID: row.ID, DisplayName: row.DisplayName}, true, nil
}

func (r *UserRepository) Upsert(ctx context.Context, item user.User) error {
	insertModel := userTableModel{ID: item.ID, DisplayName: item.DisplayName}

	query, args, err := qb.InsertModel("users", insertModel, `ON CONFLICT (id)
DO UPDATE SET display_name = EXCLUDED.display_name`)
	if err != nil {
		return fmt.Errorf("build user upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
