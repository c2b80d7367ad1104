package lifecycle

import "errors"

var (
	// ErrInvalidTransition is returned when a trigger is not permitted
	// in the current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidStatus is returned when a stored status is not a known
	// lifecycle status.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrGuardFailed is returned when every candidate transition for a
	// trigger is blocked by its guard.
	ErrGuardFailed = errors.New("transition guard failed")
)
