package postgres

import "time"

type scoreTableModel struct {
	RaceID           string    `db:"race_id"`
	UserID           string    `db:"user_id"`
	RacePoints       int       `db:"race_points"`
	QualifyingPoints int       `db:"qualifying_points"`
	TeamPoints       int       `db:"team_points"`
	RedFlagDelta     int       `db:"red_flag_delta"`
	WeekendBonus     int       `db:"weekend_bonus"`
	CorrectPositions int       `db:"correct_positions"`
	TotalPoints      int       `db:"total_points"`
	CalculatedAt     time.Time `db:"calculated_at"`
}
