package postgres

import (
	"time"

	"github.com/lib/pq"
)

type resultTableModel struct {
	RaceID          string         `db:"race_id"`
	QualifyingOrder pq.StringArray `db:"qualifying_order"`
	RaceOrder       pq.StringArray `db:"race_order"`
	HadRedFlag      bool           `db:"had_red_flag"`
	BestTeamID      string         `db:"best_team_id"`
	SecondTeamID    string         `db:"second_team_id"`
	IngestedAt      time.Time      `db:"ingested_at"`
}
