package postgres

import (
	"time"

	"github.com/lib/pq"
)

type predictionTableModel struct {
	ID              string         `db:"id"`
	UserID          string         `db:"user_id"`
	RaceID          string         `db:"race_id"`
	RedFlag         bool           `db:"red_flag_prediction"`
	QualifyingOrder pq.StringArray `db:"qualifying_order"`
	RaceOrder       pq.StringArray `db:"race_order"`
	BestTeamID      string         `db:"best_team_id"`
	SecondTeamID    string         `db:"second_team_id"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type predictionInsertModel struct {
	ID              string         `db:"id"`
	UserID          string         `db:"user_id"`
	RaceID          string         `db:"race_id"`
	RedFlag         bool           `db:"red_flag_prediction"`
	QualifyingOrder pq.StringArray `db:"qualifying_order"`
	RaceOrder       pq.StringArray `db:"race_order"`
	BestTeamID      string         `db:"best_team_id"`
	SecondTeamID    string         `db:"second_team_id"`
	UpdatedAt       time.Time      `db:"updated_at"`
}
