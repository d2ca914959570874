package tickets

import "errors"

var (
	// ErrNotConfirmed is returned when issuing tickets for a registration
	// that holds no confirmed seats.
	ErrNotConfirmed = errors.New("registration is not confirmed")

	// ErrEventClosed is returned when the event no longer admits ticket
	// operations.
	ErrEventClosed = errors.New("event does not allow ticket operations")

	// ErrTicketNotFound is returned when no ticket matches the code or id.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrTicketNotActive is returned when checking in a used or cancelled
	// ticket.
	ErrTicketNotActive = errors.New("ticket is not active")
)
