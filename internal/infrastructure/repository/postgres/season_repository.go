package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridpicks/gridpicks/internal/domain/season"
	qb "github.com/gridpicks/gridpicks/internal/platform/querybuilder"
)

type driverTableModel struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	TeamID string `db:"team_id"`
	Number int    `db:"number"`
}

type teamTableModel struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) ListDrivers(ctx context.Context) ([]season.Driver, error) {
	query, args, err := qb.Select("id", "name", "team_id", "number").
		From("drivers").
		OrderBy("number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list drivers query: %w", err)
	}

	var rows []driverTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}

	out := make([]season.Driver, 0, len(rows))
	for _, row := range rows {
		out = append(out, season.Driver{
			ID:     row.ID,
			Name:   row.Name,
			TeamID: row.TeamID,
			Number: row.Number,
		})
	}
	return out, nil
}

func (r *SeasonRepository) ListTeams(ctx context.Context) ([]season.Team, error) {
	query, args, err := qb.Select("id", "name").
		From("teams").
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]season.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, season.Team{ID: row.ID, Name: row.Name})
	}
	return out, nil
}
