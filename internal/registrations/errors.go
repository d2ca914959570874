package registrations

import "errors"

var (
	// ErrAlreadyRegistered is returned when the user already holds a
	// non-cancelled registration for the event.
	ErrAlreadyRegistered = errors.New("user already has an active registration for this event")

	// ErrAlreadyCancelled is returned when cancelling a registration that
	// is already cancelled.
	ErrAlreadyCancelled = errors.New("registration is already cancelled")

	// ErrRegistrationNotFound is returned when no registration exists for
	// the given id.
	ErrRegistrationNotFound = errors.New("registration not found")

	// ErrNotOwner is returned when a caller operates on a registration
	// that belongs to someone else.
	ErrNotOwner = errors.New("registration does not belong to caller")

	// ErrQuantityTooLarge is returned when the requested quantity exceeds
	// the per-user cap.
	ErrQuantityTooLarge = errors.New("quantity exceeds the per-user maximum")
)
