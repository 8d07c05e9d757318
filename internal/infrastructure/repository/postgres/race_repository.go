package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridpicks/gridpicks/internal/domain/race"
	qb "github.com/gridpicks/gridpicks/internal/platform/querybuilder"
)

type RaceRepository struct {
	db *sqlx.DB
}

func NewRaceRepository(db *sqlx.DB) *RaceRepository {
	return &RaceRepository{db: db}
}

func (r *RaceRepository) List(ctx context.Context) ([]race.Race, error) {
	query, args, err := raceBaseSelectBuilder().
		Where(qb.IsNull("deleted_at")).
		OrderBy("starts_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list races query: %w", err)
	}

	var rows []raceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list races: %w", err)
	}

	out := make([]race.Race, 0, len(rows))
	for _, row := range rows {
		item, err := raceFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *RaceRepository) GetByID(ctx context.Context, raceID string) (race.Race, bool, error) {
	query, args, err := raceBaseSelectBuilder().
		Where(
			qb.Eq("id", raceID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return race.Race{}, false, fmt.Errorf("build get race query: %w", err)
	}

	var row raceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return race.Race{}, false, nil
		}
		return race.Race{}, false, fmt.Errorf("get race: %w", err)
	}

	item, err := raceFromRow(row)
	if err != nil {
		return race.Race{}, false, err
	}
	return item, true, nil
}

func (r *RaceRepository) Update(ctx context.Context, item race.Race) error {
	insertModel := raceInsertModel{
		ID:              item.ID,
		Name:            item.Name,
		Location:        item.Location,
		StartsAt:        item.StartsAt.UTC(),
		IsSprintWeekend: item.IsSprintWeekend,
		Status:          string(item.Status),
		HadRedFlag:      item.HadRedFlag,
	}

	query, args, err := qb.InsertModel("races", insertModel, `ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    location = EXCLUDED.location,
    starts_at = EXCLUDED.starts_at,
    is_sprint_weekend = EXCLUDED.is_sprint_weekend,
    status = EXCLUDED.status,
    had_red_flag = EXCLUDED.had_red_flag,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build race upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert race: %w", err)
	}
	return nil
}

func raceFromRow(row raceTableModel) (race.Race, error) {
	status, err := race.ParseStatus(row.Status)
	if err != nil {
		return race.Race{}, fmt.Errorf("race %s: %w", row.ID, err)
	}

	return race.Race{
		ID:              row.ID,
		Name:            row.Name,
		Location:        row.Location,
		StartsAt:        row.StartsAt.UTC(),
		IsSprintWeekend: row.IsSprintWeekend,
		HadRedFlag:      row.HadRedFlag,
		Status:          status,
	}, nil
}

func raceBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("races")
}
