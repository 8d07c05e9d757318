package result

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrIncompleteQualifyingOrder = errors.New("incomplete qualifying order")
	ErrIncompleteRaceOrder       = errors.New("incomplete race order")
	ErrMissingTeamResult         = errors.New("missing team result")
)

// minRacePositions is how deep the finishing order must reach so every
// scored prediction position has an actual to compare against.
const minRacePositions = 10

// RaceResult is the actual outcome of a race weekend as supplied by the
// external results feed. Order slices are dense: index i = position i+1.
type RaceResult struct {
	RaceID          string
	QualifyingOrder []string
	RaceOrder       []string
	HadRedFlag      bool
	BestTeamID      string
	SecondTeamID    string
	IngestedAt      time.Time
}

// Validate checks the result is deep enough to score against: the qualifying
// order covers the weekend's slot count and the race order at least the ten
// scored positions. Partial feeds are rejected so scoring stays total.
func (r RaceResult) Validate(qualifyingSlots int) error {
	if len(r.QualifyingOrder) < qualifyingSlots {
		return fmt.Errorf("%w: expected %d positions, got %d", ErrIncompleteQualifyingOrder, qualifyingSlots, len(r.QualifyingOrder))
	}
	if len(r.RaceOrder) < minRacePositions {
		return fmt.Errorf("%w: expected at least %d positions, got %d", ErrIncompleteRaceOrder, minRacePositions, len(r.RaceOrder))
	}
	if r.BestTeamID == "" || r.SecondTeamID == "" {
		return ErrMissingTeamResult
	}
	return nil
}
