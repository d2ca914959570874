package waitlist

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistEntryResponse is one queue entry as reported to API callers.
// Position is 1-based in FIFO order.
type WaitlistEntryResponse struct {
	RegistrationID uuid.UUID `json:"registration_id"`
	UserID         uuid.UUID `json:"user_id"`
	Quantity       int       `json:"quantity"`
	Position       int       `json:"position"`
	JoinedAt       time.Time `json:"joined_at"`
}

// PositionResponse reports the caller's place in an event's queue.
type PositionResponse struct {
	EventID        uuid.UUID `json:"event_id"`
	RegistrationID uuid.UUID `json:"registration_id"`
	Position       int       `json:"position"`
	QueueLength    int       `json:"queue_length"`
	Quantity       int       `json:"quantity"`
}

// WaitlistStatsResponse summarizes an event's queue.
type WaitlistStatsResponse struct {
	EventID        uuid.UUID  `json:"event_id"`
	TotalInQueue   int        `json:"total_in_queue"`
	RequestedSeats int        `json:"requested_seats"`
	OldestJoinedAt *time.Time `json:"oldest_joined_at,omitempty"`
	RemainingSeats int        `json:"remaining_seats"`
}
