package prediction

import "time"

// RacePositions is the number of race finishing positions a prediction covers.
const RacePositions = 10

// TeamPicks is the two-slot team call for a weekend. Best is rank 1,
// Second is rank 2; there is no cross-rank credit when scoring.
type TeamPicks struct {
	Best   string
	Second string
}

// Prediction is one user's ranked call for a race weekend. The order slices
// are dense: index i holds the driver predicted at position i+1. The
// position-keyed wire shape is converted to this form at the HTTP boundary,
// so a stored prediction can never have gaps or duplicate positions.
type Prediction struct {
	ID              string
	UserID          string
	RaceID          string
	RedFlag         bool
	QualifyingOrder []string
	RaceOrder       []string
	TeamPicks       TeamPicks
	UpdatedAt       time.Time
}

// Empty is the well-defined "no prediction yet" value. Callers treat it as a
// blank form, never as an error.
func Empty(userID, raceID string) Prediction {
	return Prediction{
		UserID:          userID,
		RaceID:          raceID,
		RedFlag:         false,
		QualifyingOrder: []string{},
		RaceOrder:       []string{},
	}
}

// IsEmpty reports whether the prediction carries no picks at all.
func (p Prediction) IsEmpty() bool {
	return len(p.QualifyingOrder) == 0 &&
		len(p.RaceOrder) == 0 &&
		p.TeamPicks == TeamPicks{} &&
		!p.RedFlag
}

// Clone returns a deep copy so repository callers cannot alias stored slices.
func (p Prediction) Clone() Prediction {
	copied := p
	copied.QualifyingOrder = append([]string(nil), p.QualifyingOrder...)
	copied.RaceOrder = append([]string(nil), p.RaceOrder...)
	return copied
}
