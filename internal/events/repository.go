package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusevents/internal/ledger"
	dbtx "campusevents/internal/shared/database/tx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetAll(ctx context.Context, query EventListQuery) ([]Event, int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target Status) (*Event, error)

	// Capacity operations; both run the promotion engine inside the same
	// transaction that holds the event row lock.
	SetCapacity(ctx context.Context, id uuid.UUID, newTotal int, policy ledger.Policy) (*Event, int, []ledger.Promotion, error)
	Promote(ctx context.Context, id uuid.UUID, policy ledger.Policy) ([]ledger.Promotion, int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) GetAll(ctx context.Context, query EventListQuery) ([]Event, int64, error) {
	var events []Event
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	db := r.db.WithContext(ctx).Model(&Event{})

	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}
	if query.Venue != "" {
		db = db.Where("LOWER(venue) LIKE ?", "%"+strings.ToLower(query.Venue)+"%")
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := db.Order("starts_at ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&events).Error

	return events, totalCount, err
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ledger.ErrEventNotFound
			}
			return err
		}
		if err := tx.Model(&event).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&event).Error
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, target Status) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := ledger.LockEvent(tx, id)
		if err != nil {
			return err
		}
		if !Status(ev.Status).CanTransitionTo(target) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, ev.Status, target)
		}
		err = tx.Table("events").
			Where("id = ?", id).
			Updates(map[string]interface{}{"status": target, "updated_at": time.Now()}).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&event).Error
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// SetCapacity changes the event's capacity ceiling atomically. Raising the
// ceiling frees seats and runs the promotion engine on them; lowering it is
// rejected below the seats already confirmed.
func (r *repository) SetCapacity(ctx context.Context, id uuid.UUID, newTotal int, policy ledger.Policy) (*Event, int, []ledger.Promotion, error) {
	var (
		event      Event
		freed      int
		promotions []ledger.Promotion
	)
	err := dbtx.WithRetry(ctx, dbtx.DefaultTxAttempts, func() error {
		freed = 0
		promotions = nil
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			ev, err := ledger.LockEvent(tx, id)
			if err != nil {
				return err
			}

			confirmed := ev.TotalCapacity - ev.Capacity
			if newTotal < confirmed {
				return fmt.Errorf("%w: %d confirmed, requested ceiling %d", ErrCapacityBelowConfirmed, confirmed, newTotal)
			}

			newCapacity := newTotal - confirmed
			err = tx.Table("events").
				Where("id = ?", id).
				Updates(map[string]interface{}{
					"total_capacity": newTotal,
					"capacity":       newCapacity,
					"updated_at":     time.Now(),
				}).Error
			if err != nil {
				return fmt.Errorf("failed to update capacity ceiling: %w", err)
			}

			freed = newCapacity - ev.Capacity
			ev.TotalCapacity = newTotal
			ev.Capacity = newCapacity

			if freed > 0 {
				promotions, err = ledger.PromoteLocked(tx, ev, policy)
				if err != nil {
					return err
				}
			}

			return tx.Where("id = ?", id).First(&event).Error
		})
	})
	if err != nil {
		return nil, 0, nil, err
	}
	return &event, freed, promotions, nil
}

// Promote runs the promotion engine on whatever capacity the event has.
// Used by the admin trigger; cancellations and capacity raises promote
// within their own transactions.
func (r *repository) Promote(ctx context.Context, id uuid.UUID, policy ledger.Policy) ([]ledger.Promotion, int, error) {
	var (
		promotions []ledger.Promotion
		remaining  int
	)
	err := dbtx.WithRetry(ctx, dbtx.DefaultTxAttempts, func() error {
		promotions = nil
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			ev, err := ledger.LockEvent(tx, id)
			if err != nil {
				return err
			}
			promotions, err = ledger.PromoteLocked(tx, ev, policy)
			if err != nil {
				return err
			}
			remaining = ev.Capacity
			return nil
		})
	})
	if err != nil {
		return nil, 0, err
	}
	return promotions, remaining, nil
}
