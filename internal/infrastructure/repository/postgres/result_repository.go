package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gridpicks/gridpicks/internal/domain/result"
	qb "github.com/gridpicks/gridpicks/internal/platform/querybuilder"
)

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) GetByRace(ctx context.Context, raceID string) (result.RaceResult, bool, error) {
	query, args, err := qb.Select("*").
		From("race_results").
		Where(qb.Eq("race_id", raceID)).
		ToSQL()
	if err != nil {
		return result.RaceResult{}, false, fmt.Errorf("build get result query: %w", err)
	}

	var row resultTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return result.RaceResult{}, false, nil
		}
		return result.RaceResult{}, false, fmt.Errorf("get result: %w", err)
	}

	return result.RaceResult{
		RaceID:          row.RaceID,
		QualifyingOrder: append([]string(nil), row.QualifyingOrder...),
		RaceOrder:       append([]string(nil), row.RaceOrder...),
		HadRedFlag:      row.HadRedFlag,
		BestTeamID:      row.BestTeamID,
		SecondTeamID:    row.SecondTeamID,
		IngestedAt:      row.IngestedAt,
	}, true, nil
}

func (r *ResultRepository) Upsert(ctx context.Context, item result.RaceResult) error {
	insertModel := resultTableModel{
		RaceID:          item.RaceID,
		QualifyingOrder: pq.StringArray(item.QualifyingOrder),
		RaceOrder:       pq.StringArray(item.RaceOrder),
		HadRedFlag:      item.HadRedFlag,
		BestTeamID:      item.BestTeamID,
		SecondTeamID:    item.SecondTeamID,
		IngestedAt:      item.IngestedAt.UTC(),
	}

	query, args, err := qb.InsertModel("race_results", insertModel, `ON CONFLICT (race_id)
DO UPDATE SET
    qualifying_order = EXCLUDED.qualifying_order,
    race_order = EXCLUDED.race_order,
    had_red_flag = EXCLUDED.had_red_flag,
    best_team_id = EXCLUDED.best_team_id,
    second_team_id = EXCLUDED.second_team_id,
    ingested_at = EXCLUDED.ingested_at`)
	if err != nil {
		return fmt.Errorf("build result upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}
	return nil
}
