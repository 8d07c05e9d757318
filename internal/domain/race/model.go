package race

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTransition = errors.New("invalid race status transition")

// Status is the temporal state of a race weekend. It only moves forward.
type Status string

const (
	StatusUpcoming            Status = "UPCOMING"
	StatusQualifyingCompleted Status = "QUALIFYING_COMPLETED"
	StatusRaceCompleted       Status = "RACE_COMPLETED"
)

// PredictionLockLead is how long before the scheduled start predictions freeze.
const PredictionLockLead = time.Hour

var statusOrder = map[Status]int{
	StatusUpcoming:            0,
	StatusQualifyingCompleted: 1,
	StatusRaceCompleted:       2,
}

func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if _, ok := statusOrder[status]; !ok {
		return "", fmt.Errorf("unknown race status %q", raw)
	}
	return status, nil
}

// Race is season reference data plus lifecycle state.
type Race struct {
	ID              string
	Name            string
	Location        string
	StartsAt        time.Time
	IsSprintWeekend bool
	HadRedFlag      *bool
	Status          Status
}

// Advance moves the race to next. Only the immediate successor is allowed;
// skipping or going backward fails with ErrInvalidTransition.
func (r *Race) Advance(next Status) error {
	current, ok := statusOrder[r.Status]
	if !ok {
		return fmt.Errorf("%w: current status %q is unknown", ErrInvalidTransition, r.Status)
	}
	target, ok := statusOrder[next]
	if !ok {
		return fmt.Errorf("%w: target status %q is unknown", ErrInvalidTransition, next)
	}
	if target != current+1 {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, next)
	}

	r.Status = next
	return nil
}

// LockTime is the moment predictions for this race become immutable.
func (r Race) LockTime() time.Time {
	return r.StartsAt.Add(-PredictionLockLead)
}

// IsLocked reports whether predictions may no longer be changed at now.
// Advancing past UPCOMING locks the race regardless of the clock.
func (r Race) IsLocked(now time.Time) bool {
	if r.Status != StatusUpcoming {
		return true
	}
	return !now.Before(r.LockTime())
}

// QualifyingSlots is the number of qualifying positions a prediction and a
// result must carry for this weekend type.
func (r Race) QualifyingSlots() int {
	if r.IsSprintWeekend {
		return 7
	}
	return 3
}
