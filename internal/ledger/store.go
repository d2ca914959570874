package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LockedEvent is the slice of the events row the engine mutates. It is only
// valid inside the transaction that acquired the row lock.
type LockedEvent struct {
	ID            uuid.UUID `gorm:"column:id"`
	Status        string    `gorm:"column:status"`
	TotalCapacity int       `gorm:"column:total_capacity"`
	Capacity      int       `gorm:"column:capacity"`
}

// LockEvent loads the event row FOR UPDATE, serializing all ledger
// operations for that event behind the row lock.
func LockEvent(tx *gorm.DB, eventID uuid.UUID) (*LockedEvent, error) {
	var ev LockedEvent
	err := tx.Table("events").
		Select("id, status, total_capacity, capacity").
		Where("id = ?", eventID).
		Set("gorm:query_option", "FOR UPDATE").
		First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to lock event: %w", err)
	}
	return &ev, nil
}

// ReserveLocked applies a reserve decision against a locked event row and
// persists the capacity decrement when the outcome is a confirmed seat.
func ReserveLocked(tx *gorm.DB, ev *LockedEvent, quantity int) (Outcome, error) {
	queued, err := queueLength(tx, ev.ID)
	if err != nil {
		return "", err
	}
	outcome, remaining, err := Reserve(ev.Capacity, queued, quantity)
	if err != nil {
		return "", err
	}
	if remaining != ev.Capacity {
		if err := saveCapacity(tx, ev.ID, remaining); err != nil {
			return "", err
		}
		ev.Capacity = remaining
	}
	return outcome, nil
}

// ReleaseLocked frees seats on a locked event row, capped at the ceiling.
func ReleaseLocked(tx *gorm.DB, ev *LockedEvent, freed int) error {
	remaining := Release(ev.Capacity, ev.TotalCapacity, freed)
	if remaining == ev.Capacity {
		return nil
	}
	if err := saveCapacity(tx, ev.ID, remaining); err != nil {
		return err
	}
	ev.Capacity = remaining
	return nil
}

// QueueEntries returns the event's waitlist in FIFO order. The waitlist is
// an ordered index over waitlisted registrations, not an embedded list, so
// cancelling a mid-queue entry needs no array surgery under the lock.
func QueueEntries(tx *gorm.DB, eventID uuid.UUID) ([]Entry, error) {
	var entries []Entry
	err := tx.Table("registrations").
		Select("id AS registration_id, user_id, quantity, created_at").
		Where("event_id = ?", eventID).
		Where("status = ?", "WAITLISTED").
		Order("created_at ASC, id ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load waitlist: %w", err)
	}
	return entries, nil
}

// PromoteLocked advances waitlisted registrations into confirmed seats while
// capacity allows. It runs entirely inside the caller's transaction: a
// failure on any row aborts the whole batch, so partial promotion is never
// persisted.
func PromoteLocked(tx *gorm.DB, ev *LockedEvent, policy Policy) ([]Promotion, error) {
	queue, err := QueueEntries(tx, ev.ID)
	if err != nil {
		return nil, err
	}

	promotions, remaining := Plan(ev.Capacity, queue, policy)
	if len(promotions) == 0 {
		return nil, nil
	}

	now := time.Now()
	for _, p := range promotions {
		res := tx.Table("registrations").
			Where("id = ?", p.RegistrationID).
			Where("status = ?", "WAITLISTED").
			Updates(map[string]interface{}{
				"status":       "CONFIRMED",
				"confirmed_at": now,
				"updated_at":   now,
			})
		if res.Error != nil {
			return nil, fmt.Errorf("failed to promote registration %s: %w", p.RegistrationID, res.Error)
		}
		if res.RowsAffected != 1 {
			return nil, fmt.Errorf("registration %s changed state during promotion", p.RegistrationID)
		}
	}

	if err := saveCapacity(tx, ev.ID, remaining); err != nil {
		return nil, err
	}
	ev.Capacity = remaining

	return promotions, nil
}

func queueLength(tx *gorm.DB, eventID uuid.UUID) (int, error) {
	var count int64
	err := tx.Table("registrations").
		Where("event_id = ?", eventID).
		Where("status = ?", "WAITLISTED").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count waitlist: %w", err)
	}
	return int(count), nil
}

func saveCapacity(tx *gorm.DB, eventID uuid.UUID, capacity int) error {
	err := tx.Table("events").
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"capacity":   capacity,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update event capacity: %w", err)
	}
	return nil
}
