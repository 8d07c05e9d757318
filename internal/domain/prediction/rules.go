package prediction

import (
	"errors"
	"fmt"
)

var (
	ErrWrongQualifyingSize = errors.New("wrong qualifying prediction size")
	ErrWrongRaceSize       = errors.New("wrong race prediction size")
	ErrMissingTeamPick     = errors.New("missing team pick")
	ErrDuplicateDriver     = errors.New("duplicate driver in prediction list")
	ErrDuplicateTeam       = errors.New("duplicate team in prediction")
	ErrBlankEntry          = errors.New("blank entry in prediction list")
)

// IsMalformed reports whether err is one of the structural validation
// failures a caller can fix by correcting the submitted lists.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrWrongQualifyingSize) ||
		errors.Is(err, ErrWrongRaceSize) ||
		errors.Is(err, ErrMissingTeamPick) ||
		errors.Is(err, ErrDuplicateDriver) ||
		errors.Is(err, ErrDuplicateTeam) ||
		errors.Is(err, ErrBlankEntry)
}

// Validate checks the structural invariants of a complete prediction:
// qualifying covers the weekend's slot count (3 standard, 7 sprint), the race
// order covers exactly positions 1..10, both team ranks are filled, and no
// driver or team appears twice within its own list.
func Validate(p Prediction, qualifyingSlots int) error {
	if len(p.QualifyingOrder) != qualifyingSlots {
		return fmt.Errorf("%w: expected %d, got %d", ErrWrongQualifyingSize, qualifyingSlots, len(p.QualifyingOrder))
	}
	if err := validateOrder(p.QualifyingOrder, "qualifying"); err != nil {
		return err
	}

	if len(p.RaceOrder) != RacePositions {
		return fmt.Errorf("%w: expected %d, got %d", ErrWrongRaceSize, RacePositions, len(p.RaceOrder))
	}
	if err := validateOrder(p.RaceOrder, "race"); err != nil {
		return err
	}

	if p.TeamPicks.Best == "" {
		return fmt.Errorf("%w: best team", ErrMissingTeamPick)
	}
	if p.TeamPicks.Second == "" {
		return fmt.Errorf("%w: second team", ErrMissingTeamPick)
	}
	if p.TeamPicks.Best == p.TeamPicks.Second {
		return fmt.Errorf("%w: %s", ErrDuplicateTeam, p.TeamPicks.Best)
	}

	return nil
}

func validateOrder(order []string, list string) error {
	seen := make(map[string]struct{}, len(order))
	for idx, driverID := range order {
		if driverID == "" {
			return fmt.Errorf("%w: %s position %d", ErrBlankEntry, list, idx+1)
		}
		if _, exists := seen[driverID]; exists {
			return fmt.Errorf("%w: %s list driver %s", ErrDuplicateDriver, list, driverID)
		}
		seen[driverID] = struct{}{}
	}
	return nil
}
