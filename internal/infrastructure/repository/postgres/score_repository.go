package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridpicks/gridpicks/internal/domain/scoring"
	qb "github.com/gridpicks/gridpicks/internal/platform/querybuilder"
)

type ScoreRepository struct {
	db *sqlx.DB
}

func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

func (r *ScoreRepository) GetByUserAndRace(ctx context.Context, userID, raceID string) (scoring.Breakdown, bool, error) {
	query, args, err := scoreBaseSelectBuilder().
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("race_id", raceID),
		).
		ToSQL()
	if err != nil {
		return scoring.Breakdown{}, false, fmt.Errorf("build get breakdown query: %w", err)
	}

	var row scoreTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scoring.Breakdown{}, false, nil
		}
		return scoring.Breakdown{}, false, fmt.Errorf("get breakdown: %w", err)
	}

	return breakdownFromRow(row), true, nil
}

func (r *ScoreRepository) ListByRace(ctx context.Context, raceID string) ([]scoring.Breakdown, error) {
	query, args, err := scoreBaseSelectBuilder().
		Where(qb.Eq("race_id", raceID)).
		OrderBy("total_points DESC", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list breakdowns query: %w", err)
	}

	var rows []scoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list breakdowns by race: %w", err)
	}

	out := make([]scoring.Breakdown, 0, len(rows))
	for _, row := range rows {
		out = append(out, breakdownFromRow(row))
	}
	return out, nil
}

func (r *ScoreRepository) ListAll(ctx context.Context) ([]scoring.Breakdown, error) {
	query, args, err := scoreBaseSelectBuilder().
		OrderBy("race_id", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list all breakdowns query: %w", err)
	}

	var rows []scoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list all breakdowns: %w", err)
	}

	out := make([]scoring.Breakdown, 0, len(rows))
	for _, row := range rows {
		out = append(out, breakdownFromRow(row))
	}
	return out, nil
}

// ReplaceByRace swaps the full breakdown set of a race inside one
// transaction, so readers never observe a half-scored race.
func (r *ScoreRepository) ReplaceByRace(ctx context.Context, raceID string, rows []scoring.Breakdown) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace breakdowns: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("score_breakdowns").
		Where(qb.Eq("race_id", raceID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete breakdowns query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete breakdowns: %w", err)
	}

	for _, row := range rows {
		insertModel := scoreTableModel{
			RaceID:           row.RaceID,
			UserID:           row.UserID,
			RacePoints:       row.RacePoints,
			QualifyingPoints: row.QualifyingPoints,
			TeamPoints:       row.TeamPoints,
			RedFlagDelta:     row.RedFlagDelta,
			WeekendBonus:     row.WeekendBonus,
			CorrectPositions: row.CorrectPositions,
			TotalPoints:      row.TotalPoints,
			CalculatedAt:     row.CalculatedAt.UTC(),
		}
		insertQuery, insertArgs, err := qb.InsertModel("score_breakdowns", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert breakdown query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("insert breakdown: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace breakdowns: %w", err)
	}
	return nil
}

func breakdownFromRow(row scoreTableModel) scoring.Breakdown {
	return scoring.Breakdown{
		RaceID:           row.RaceID,
		UserID:           row.UserID,
		RacePoints:       row.RacePoints,
		QualifyingPoints: row.QualifyingPoints,
		TeamPoints:       row.TeamPoints,
		RedFlagDelta:     row.RedFlagDelta,
		WeekendBonus:     row.WeekendBonus,
		CorrectPositions: row.CorrectPositions,
		TotalPoints:      row.TotalPoints,
		CalculatedAt:     row.CalculatedAt,
	}
}

func scoreBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("score_breakdowns")
}
