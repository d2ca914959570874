package registrations

import (
	"time"

	"campusevents/internal/ledger"

	"github.com/google/uuid"
)

// RegistrationResponse represents registration data returned to clients.
// Position is only meaningful for waitlisted registrations and is 1-based.
type RegistrationResponse struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	EventID     uuid.UUID  `json:"event_id"`
	Quantity    int        `json:"quantity"`
	Status      Status     `json:"status"`
	Position    int        `json:"position,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// ToResponse converts a Registration to RegistrationResponse
func (r *Registration) ToResponse() RegistrationResponse {
	return RegistrationResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		EventID:     r.EventID,
		Quantity:    r.Quantity,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		ConfirmedAt: r.ConfirmedAt,
		CancelledAt: r.CancelledAt,
	}
}

// PromotedInfo describes one waitlist entry confirmed as a side effect of a
// cancellation.
type PromotedInfo struct {
	RegistrationID uuid.UUID `json:"registration_id"`
	UserID         uuid.UUID `json:"user_id"`
	Quantity       int       `json:"quantity"`
}

// CancelResponse reports the cancellation and every promotion it caused.
type CancelResponse struct {
	Registration      RegistrationResponse `json:"registration"`
	FreedSeats        int                  `json:"freed_seats"`
	Promoted          []PromotedInfo       `json:"promoted"`
	RemainingCapacity int                  `json:"remaining_capacity"`
}

func newCancelResponse(reg *Registration, freed, remaining int, promotions []ledger.Promotion) *CancelResponse {
	promoted := make([]PromotedInfo, 0, len(promotions))
	for _, p := range promotions {
		promoted = append(promoted, PromotedInfo{
			RegistrationID: p.RegistrationID,
			UserID:         p.UserID,
			Quantity:       p.Quantity,
		})
	}
	return &CancelResponse{
		Registration:      reg.ToResponse(),
		FreedSeats:        freed,
		Promoted:          promoted,
		RemainingCapacity: remaining,
	}
}
