package registrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusevents/internal/ledger"
	dbtx "campusevents/internal/shared/database/tx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventTx is the set of operations available while holding an event's row
// lock. All capacity and status mutations for that event go through it, so
// two concurrent registrations can never both observe the same
// pre-decrement capacity.
type EventTx interface {
	// Event returns the locked event row, kept in sync as the ledger
	// mutates it.
	Event() *ledger.LockedEvent

	// ActiveRegistration returns the caller's non-cancelled registration
	// for this event, or nil when there is none.
	ActiveRegistration(userID uuid.UUID) (*Registration, error)

	// RegistrationForUpdate loads and locks a registration row.
	RegistrationForUpdate(id uuid.UUID) (*Registration, error)

	Create(reg *Registration) error
	Update(reg *Registration) error

	// Reserve, Release and Promote delegate to the capacity ledger.
	Reserve(quantity int) (ledger.Outcome, error)
	Release(freed int) error
	Promote(policy ledger.Policy) ([]ledger.Promotion, error)

	// QueueLength returns the number of waitlisted registrations for the
	// event, including any created earlier in this transaction.
	QueueLength() (int, error)

	// CancelTickets voids any active tickets minted for the registration.
	CancelTickets(registrationID uuid.UUID) (int64, error)
}

// Store is the persistence boundary of the registration state machine.
type Store interface {
	GetRegistration(ctx context.Context, id uuid.UUID) (*Registration, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Registration, error)
	ListConfirmedByEvent(ctx context.Context, eventID uuid.UUID) ([]Registration, error)

	// WithEventTx runs fn inside a transaction that holds the event row
	// lock, retrying on transient concurrency conflicts. fn must be safe
	// to re-run; all its writes go through the EventTx.
	WithEventTx(ctx context.Context, eventID uuid.UUID, fn func(tx EventTx) error) error
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) GetRegistration(ctx context.Context, id uuid.UUID) (*Registration, error) {
	var reg Registration
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (s *store) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Registration, error) {
	if limit <= 0 {
		limit = 10
	}
	var regs []Registration
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&regs).Error
	return regs, err
}

func (s *store) ListConfirmedByEvent(ctx context.Context, eventID uuid.UUID) ([]Registration, error) {
	var regs []Registration
	err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Where("status = ?", StatusConfirmed).
		Order("created_at ASC").
		Find(&regs).Error
	return regs, err
}

func (s *store) WithEventTx(ctx context.Context, eventID uuid.UUID, fn func(tx EventTx) error) error {
	return dbtx.WithRetry(ctx, dbtx.DefaultTxAttempts, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			ev, err := ledger.LockEvent(tx, eventID)
			if err != nil {
				return err
			}
			return fn(&eventTx{tx: tx, event: ev})
		})
	})
}

type eventTx struct {
	tx    *gorm.DB
	event *ledger.LockedEvent
}

func (t *eventTx) Event() *ledger.LockedEvent {
	return t.event
}

func (t *eventTx) ActiveRegistration(userID uuid.UUID) (*Registration, error) {
	var reg Registration
	err := t.tx.
		Where("user_id = ?", userID).
		Where("event_id = ?", t.event.ID).
		Where("status != ?", StatusCancelled).
		First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func (t *eventTx) RegistrationForUpdate(id uuid.UUID) (*Registration, error) {
	var reg Registration
	err := t.tx.
		Where("id = ?", id).
		Set("gorm:query_option", "FOR UPDATE").
		First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (t *eventTx) Create(reg *Registration) error {
	if err := t.tx.Create(reg).Error; err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (t *eventTx) Update(reg *Registration) error {
	if err := t.tx.Save(reg).Error; err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}
	return nil
}

func (t *eventTx) Reserve(quantity int) (ledger.Outcome, error) {
	return ledger.ReserveLocked(t.tx, t.event, quantity)
}

func (t *eventTx) Release(freed int) error {
	return ledger.ReleaseLocked(t.tx, t.event, freed)
}

func (t *eventTx) Promote(policy ledger.Policy) ([]ledger.Promotion, error) {
	return ledger.PromoteLocked(t.tx, t.event, policy)
}

func (t *eventTx) QueueLength() (int, error) {
	var count int64
	err := t.tx.Model(&Registration{}).
		Where("event_id = ?", t.event.ID).
		Where("status = ?", StatusWaitlisted).
		Count(&count).Error
	return int(count), err
}

func (t *eventTx) CancelTickets(registrationID uuid.UUID) (int64, error) {
	res := t.tx.Table("tickets").
		Where("registration_id = ?", registrationID).
		Where("status = ?", "ACTIVE").
		Updates(map[string]interface{}{
			"status":     "CANCELLED",
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to cancel tickets: %w", res.Error)
	}
	return res.RowsAffected, nil
}
