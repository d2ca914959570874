package tickets

import (
	"context"
	"errors"
	"fmt"

	"campusevents/internal/events"
	"campusevents/internal/registrations"
	dbtx "campusevents/internal/shared/database/tx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegistrationTx is the set of operations available while holding a
// registration's row lock. The lock serializes concurrent issue calls for
// the same registration, which keeps issuance idempotent.
type RegistrationTx interface {
	Registration() *registrations.Registration
	EventStatus() (events.Status, error)
	ExistingTickets() ([]Ticket, error)
	CreateTickets(tickets []Ticket) error
}

// Store is the persistence boundary of the ticket issuance gate.
type Store interface {
	GetByCode(ctx context.Context, code string) (*Ticket, error)
	ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]Ticket, error)

	// WithRegistrationTx runs fn while holding the registration row lock.
	WithRegistrationTx(ctx context.Context, registrationID uuid.UUID, fn func(tx RegistrationTx) error) error

	// CheckIn marks an active ticket used, inside its own transaction. The
	// returned ticket reflects the post-check-in state.
	CheckIn(ctx context.Context, code string) (*Ticket, error)
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) GetByCode(ctx context.Context, code string) (*Ticket, error) {
	var ticket Ticket
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (s *store) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]Ticket, error) {
	var tickets []Ticket
	err := s.db.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Order("created_at ASC, code ASC").
		Find(&tickets).Error
	return tickets, err
}

func (s *store) WithRegistrationTx(ctx context.Context, registrationID uuid.UUID, fn func(tx RegistrationTx) error) error {
	return dbtx.WithRetry(ctx, dbtx.DefaultTxAttempts, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var reg registrations.Registration
			err := tx.
				Where("id = ?", registrationID).
				Set("gorm:query_option", "FOR UPDATE").
				First(&reg).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return registrations.ErrRegistrationNotFound
				}
				return err
			}
			return fn(&registrationTx{tx: tx, reg: &reg})
		})
	})
}

func (s *store) CheckIn(ctx context.Context, code string) (*Ticket, error) {
	var ticket Ticket
	err := dbtx.WithRetry(ctx, dbtx.DefaultTxAttempts, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			err := tx.
				Where("code = ?", code).
				Set("gorm:query_option", "FOR UPDATE").
				First(&ticket).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrTicketNotFound
				}
				return err
			}

			if !ticket.IsActive() {
				return fmt.Errorf("%w: %s", ErrTicketNotActive, ticket.Status)
			}

			var ev struct {
				Status string
			}
			err = tx.Table("events").
				Select("status").
				Where("id = ?", ticket.EventID).
				First(&ev).Error
			if err != nil {
				return err
			}
			if !events.Status(ev.Status).AllowsCheckIn() {
				return fmt.Errorf("%w: event is %s", ErrEventClosed, ev.Status)
			}

			res := tx.Model(&ticket).
				Where("status = ?", StatusActive).
				Updates(map[string]interface{}{
					"status":  StatusUsed,
					"used_at": gorm.Expr("NOW()"),
				})
			if res.Error != nil {
				return fmt.Errorf("failed to check in ticket: %w", res.Error)
			}
			if res.RowsAffected != 1 {
				return ErrTicketNotActive
			}

			return tx.Where("code = ?", code).First(&ticket).Error
		})
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

type registrationTx struct {
	tx  *gorm.DB
	reg *registrations.Registration
}

func (t *registrationTx) Registration() *registrations.Registration {
	return t.reg
}

func (t *registrationTx) EventStatus() (events.Status, error) {
	var ev struct {
		Status string
	}
	err := t.tx.Table("events").
		Select("status").
		Where("id = ?", t.reg.EventID).
		First(&ev).Error
	if err != nil {
		return "", err
	}
	return events.Status(ev.Status), nil
}

func (t *registrationTx) ExistingTickets() ([]Ticket, error) {
	var tickets []Ticket
	err := t.tx.
		Where("registration_id = ?", t.reg.ID).
		Order("created_at ASC, code ASC").
		Find(&tickets).Error
	return tickets, err
}

func (t *registrationTx) CreateTickets(tickets []Ticket) error {
	if err := t.tx.Create(&tickets).Error; err != nil {
		return fmt.Errorf("failed to create tickets: %w", err)
	}
	return nil
}
