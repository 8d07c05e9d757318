package scoring

import "time"

// Breakdown is the immutable per-user per-race scoring output. It is derived
// data: recomputing from the same prediction and result always yields the
// same value.
type Breakdown struct {
	RaceID           string
	UserID           string
	RacePoints       int
	QualifyingPoints int
	TeamPoints       int
	RedFlagDelta     int
	WeekendBonus     int
	CorrectPositions int
	TotalPoints      int
	CalculatedAt     time.Time
}
