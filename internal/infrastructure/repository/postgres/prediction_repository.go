package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gridpicks/gridpicks/internal/domain/prediction"
	qb "github.com/gridpicks/gridpicks/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) GetByUserAndRace(ctx context.Context, userID, raceID string) (prediction.Prediction, bool, error) {
	query, args, err := predictionBaseSelectBuilder().
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("race_id", raceID),
		).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction: %w", err)
	}

	return predictionFromRow(row), true, nil
}

func (r *PredictionRepository) ListByRace(ctx context.Context, raceID string) ([]prediction.Prediction, error) {
	query, args, err := predictionBaseSelectBuilder().
		Where(qb.Eq("race_id", raceID)).
		OrderBy("updated_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions by race: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionFromRow(row))
	}
	return out, nil
}

// Upsert replaces the whole prediction for the (user, race) pair; partial
// merges are never performed.
func (r *PredictionRepository) Upsert(ctx context.Context, item prediction.Prediction) error {
	insertModel := predictionInsertModel{
		ID:              item.ID,
		UserID:          item.UserID,
		RaceID:          item.RaceID,
		RedFlag:         item.RedFlag,
		QualifyingOrder: pq.StringArray(item.QualifyingOrder),
		RaceOrder:       pq.StringArray(item.RaceOrder),
		BestTeamID:      item.TeamPicks.Best,
		SecondTeamID:    item.TeamPicks.Second,
		UpdatedAt:       item.UpdatedAt.UTC(),
	}

	query, args, err := qb.InsertModel("predictions", insertModel, `ON CONFLICT (user_id, race_id)
DO UPDATE SET
    red_flag_prediction = EXCLUDED.red_flag_prediction,
    qualifying_order = EXCLUDED.qualifying_order,
    race_order = EXCLUDED.race_order,
    best_team_id = EXCLUDED.best_team_id,
    second_team_id = EXCLUDED.second_team_id,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build prediction upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert prediction: %w", err)
	}
	return nil
}

func predictionFromRow(row predictionTableModel) prediction.Prediction {
	return prediction.Prediction{
		ID:              row.ID,
		UserID:          row.UserID,
		RaceID:          row.RaceID,
		RedFlag:         row.RedFlag,
		QualifyingOrder: append([]string(nil), row.QualifyingOrder...),
		RaceOrder:       append([]string(nil), row.RaceOrder...),
		TeamPicks: prediction.TeamPicks{
			Best:   row.BestTeamID,
			Second: row.SecondTeamID,
		},
		UpdatedAt: row.UpdatedAt,
	}
}

func predictionBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("predictions")
}
