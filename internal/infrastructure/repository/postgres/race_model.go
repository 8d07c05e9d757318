package postgres

import "time"

type raceTableModel struct {
	ID              string     `db:"id"`
	Name            string     `db:"name"`
	Location        string     `db:"location"`
	StartsAt        time.Time  `db:"starts_at"`
	IsSprintWeekend bool       `db:"is_sprint_weekend"`
	Status          string     `db:"status"`
	HadRedFlag      *bool      `db:"had_red_flag"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

type raceInsertModel struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	Location        string    `db:"location"`
	StartsAt        time.Time `db:"starts_at"`
	IsSprintWeekend bool      `db:"is_sprint_weekend"`
	Status          string    `db:"status"`
	HadRedFlag      *bool     `db:"had_red_flag"`
}
