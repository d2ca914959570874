package events

import "errors"

var (
	// ErrEventClosed is returned when an operation requires the event to be
	// accepting registrations and it is not.
	ErrEventClosed = errors.New("event is not accepting registrations")

	// ErrInvalidTransition is returned for a status change the lifecycle
	// does not allow.
	ErrInvalidTransition = errors.New("invalid event status transition")

	// ErrCapacityBelowConfirmed is returned when a capacity edit would drop
	// the ceiling below the seats already held by confirmed registrations.
	ErrCapacityBelowConfirmed = errors.New("total capacity cannot drop below confirmed seats")
)
