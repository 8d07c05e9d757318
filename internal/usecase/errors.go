package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrRaceLocked rejects prediction writes once the race lock time has
	// passed or the lifecycle has advanced. Expected and non-retryable.
	ErrRaceLocked = errors.New("race is locked for predictions")

	// ErrNotYetScored is a valid state, not a failure: ask again after the
	// race completes and its result has been ingested.
	ErrNotYetScored = errors.New("race is not yet scored")
)
