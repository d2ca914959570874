// Package ledger is the single source of truth for an event's remaining
// seats and waitlist. Every capacity mutation in the system goes through
// the functions in this package, inside a transaction that holds the
// event's row lock.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Outcome is the result of a reserve decision.
type Outcome string

const (
	OutcomeConfirmed  Outcome = "CONFIRMED"
	OutcomeWaitlisted Outcome = "WAITLISTED"
)

// Policy selects how queued entries are promoted when capacity frees up.
type Policy string

const (
	// PolicyStrictFIFO promotes in arrival order and stops at the first
	// entry that does not fit. A later, smaller request is never promoted
	// ahead of an earlier, larger one.
	PolicyStrictFIFO Policy = "strict_fifo"

	// PolicyBestFit skips over entries that do not fit. Opt-in only.
	PolicyBestFit Policy = "best_fit"
)

// ParsePolicy maps a config string to a Policy, defaulting to strict FIFO.
func ParsePolicy(s string) Policy {
	if Policy(s) == PolicyBestFit {
		return PolicyBestFit
	}
	return PolicyStrictFIFO
}

// Entry is one waitlisted registration as seen by the promotion planner,
// ordered FIFO by CreatedAt.
type Entry struct {
	RegistrationID uuid.UUID
	UserID         uuid.UUID
	Quantity       int
	CreatedAt      time.Time
}

// Promotion records one waitlisted registration advanced to a confirmed seat.
type Promotion struct {
	RegistrationID uuid.UUID
	UserID         uuid.UUID
	Quantity       int
}

// Reserve decides whether a request for quantity seats gets a confirmed
// seat or joins the waitlist. A non-empty queue always waitlists the
// request, even when it would fit: a newcomer never jumps ahead of an
// earlier entry still waiting for a larger block. It returns the outcome
// and the remaining capacity after the decision; capacity is untouched for
// a waitlisted outcome.
func Reserve(capacity, queued, quantity int) (Outcome, int, error) {
	if quantity < 1 {
		return "", capacity, ErrInvalidQuantity
	}
	if queued == 0 && quantity <= capacity {
		return OutcomeConfirmed, capacity - quantity, nil
	}
	return OutcomeWaitlisted, capacity, nil
}

// Release returns the capacity after freeing seats, capped at the event's
// capacity ceiling. Overlapping cancellations can never push remaining
// capacity above the ceiling.
func Release(capacity, ceiling, freed int) int {
	capacity += freed
	if capacity > ceiling {
		capacity = ceiling
	}
	return capacity
}

// Plan computes the promotions that the given capacity allows for a
// FIFO-ordered queue. It returns the promotions in queue order and the
// capacity remaining after all of them are applied.
func Plan(capacity int, queue []Entry, policy Policy) ([]Promotion, int) {
	var promotions []Promotion
	for _, next := range queue {
		if capacity <= 0 {
			break
		}
		if next.Quantity > capacity {
			if policy == PolicyBestFit {
				continue
			}
			break
		}
		capacity -= next.Quantity
		promotions = append(promotions, Promotion{
			RegistrationID: next.RegistrationID,
			UserID:         next.UserID,
			Quantity:       next.Quantity,
		})
	}
	return promotions, capacity
}
