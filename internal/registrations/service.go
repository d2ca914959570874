package registrations

import (
	"context"
	"fmt"
	"time"

	"campusevents/internal/events"
	"campusevents/internal/ledger"
	"campusevents/pkg/logger"

	"github.com/google/uuid"
)

// Notifier is the outbound collaborator informed of status changes so the
// notification service can reach the user. Delivery is out of scope here;
// calls happen after the transaction commits and failures never affect the
// registration outcome.
type Notifier interface {
	RegistrationConfirmed(ctx context.Context, reg *Registration)
	RegistrationWaitlisted(ctx context.Context, reg *Registration, position int)
	RegistrationCancelled(ctx context.Context, reg *Registration)
	WaitlistPromoted(ctx context.Context, eventID uuid.UUID, promotions []ledger.Promotion)
}

// Service drives the registration state machine.
type Service interface {
	Register(ctx context.Context, userID, eventID uuid.UUID, quantity int) (*RegistrationResponse, error)
	Cancel(ctx context.Context, id, callerID uuid.UUID) (*CancelResponse, error)
	CancelInternal(ctx context.Context, id uuid.UUID) (*CancelResponse, error)
	GetRegistration(ctx context.Context, id uuid.UUID) (*Registration, error)
	GetUserRegistrations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Registration, error)
	GetEventRegistrations(ctx context.Context, eventID uuid.UUID) ([]Registration, error)
	SetNotifier(notifier Notifier)
}

// ServiceConfig contains the engine tunables the state machine honours.
type ServiceConfig struct {
	MaxQuantityPerUser int
	PromotionPolicy    ledger.Policy
}

// DefaultServiceConfig returns default service configuration
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		MaxQuantityPerUser: 10,
		PromotionPolicy:    ledger.PolicyStrictFIFO,
	}
}

type service struct {
	store    Store
	config   *ServiceConfig
	notifier Notifier
	log      *logger.Logger
}

// NewService creates a new registration service
func NewService(store Store, config *ServiceConfig) Service {
	if config == nil {
		config = DefaultServiceConfig()
	}
	return &service{
		store:  store,
		config: config,
		log:    logger.GetDefault(),
	}
}

// SetNotifier injects the notification collaborator. The service works
// without one.
func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// Register creates a registration for the user, confirmed when capacity
// allows and waitlisted otherwise. The decision, the capacity decrement
// and the new row commit atomically under the event row lock.
func (s *service) Register(ctx context.Context, userID, eventID uuid.UUID, quantity int) (*RegistrationResponse, error) {
	if quantity < 1 {
		return nil, ledger.ErrInvalidQuantity
	}
	if s.config.MaxQuantityPerUser > 0 && quantity > s.config.MaxQuantityPerUser {
		return nil, fmt.Errorf("%w (max %d)", ErrQuantityTooLarge, s.config.MaxQuantityPerUser)
	}

	var (
		reg      *Registration
		position int
	)
	err := s.store.WithEventTx(ctx, eventID, func(tx EventTx) error {
		reg = nil
		position = 0

		ev := tx.Event()
		if !events.Status(ev.Status).AcceptsRegistrations() {
			return events.ErrEventClosed
		}

		existing, err := tx.ActiveRegistration(userID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyRegistered
		}

		outcome, err := tx.Reserve(quantity)
		if err != nil {
			return err
		}

		now := time.Now()
		reg = &Registration{
			ID:        uuid.New(),
			UserID:    userID,
			EventID:   eventID,
			Quantity:  quantity,
			Status:    Status(outcome),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if outcome == ledger.OutcomeConfirmed {
			reg.ConfirmedAt = &now
		}
		if err := tx.Create(reg); err != nil {
			return err
		}

		if outcome == ledger.OutcomeWaitlisted {
			// The row just created is part of the count.
			position, err = tx.QueueLength()
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.LogRegistrationCreated(ctx, reg.ID.String(), eventID.String(), userID.String(), string(reg.Status))
	if s.notifier != nil {
		if reg.IsConfirmed() {
			s.notifier.RegistrationConfirmed(ctx, reg)
		} else {
			s.notifier.RegistrationWaitlisted(ctx, reg, position)
		}
	}

	response := reg.ToResponse()
	response.Position = position
	return &response, nil
}

// Cancel cancels the caller's registration. When the registration held
// confirmed seats the freed capacity runs the promotion engine inside the
// same transaction.
func (s *service) Cancel(ctx context.Context, id, callerID uuid.UUID) (*CancelResponse, error) {
	return s.cancel(ctx, id, &callerID)
}

// CancelInternal cancels without ownership verification, for admin and
// moderation flows.
func (s *service) CancelInternal(ctx context.Context, id uuid.UUID) (*CancelResponse, error) {
	return s.cancel(ctx, id, nil)
}

func (s *service) cancel(ctx context.Context, id uuid.UUID, callerID *uuid.UUID) (*CancelResponse, error) {
	current, err := s.store.GetRegistration(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerID != nil && current.UserID != *callerID {
		return nil, ErrNotOwner
	}

	var (
		cancelled  *Registration
		promotions []ledger.Promotion
		freed      int
		remaining  int
	)
	err = s.store.WithEventTx(ctx, current.EventID, func(tx EventTx) error {
		cancelled = nil
		promotions = nil
		freed = 0

		reg, err := tx.RegistrationForUpdate(id)
		if err != nil {
			return err
		}
		if reg.IsCancelled() {
			return ErrAlreadyCancelled
		}

		wasConfirmed := reg.IsConfirmed()
		reg.Cancel()
		if err := tx.Update(reg); err != nil {
			return err
		}
		if _, err := tx.CancelTickets(reg.ID); err != nil {
			return err
		}

		if wasConfirmed {
			freed = reg.Quantity
			if err := tx.Release(freed); err != nil {
				return err
			}
			promotions, err = tx.Promote(s.config.PromotionPolicy)
			if err != nil {
				return err
			}
		}
		// A waitlisted registration leaves the queue by the status change
		// alone; the relative order of the remaining entries is untouched.

		cancelled = reg
		remaining = tx.Event().Capacity
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.LogRegistrationCancelled(ctx, cancelled.ID.String(), cancelled.EventID.String(), cancelled.UserID.String())
	if len(promotions) > 0 {
		s.log.LogWaitlistPromotion(ctx, cancelled.EventID.String(), len(promotions), remaining)
	}
	if s.notifier != nil {
		s.notifier.RegistrationCancelled(ctx, cancelled)
		if len(promotions) > 0 {
			s.notifier.WaitlistPromoted(ctx, cancelled.EventID, promotions)
		}
	}

	return newCancelResponse(cancelled, freed, remaining, promotions), nil
}

func (s *service) GetRegistration(ctx context.Context, id uuid.UUID) (*Registration, error) {
	return s.store.GetRegistration(ctx, id)
}

func (s *service) GetUserRegistrations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Registration, error) {
	return s.store.ListByUser(ctx, userID, limit, offset)
}

func (s *service) GetEventRegistrations(ctx context.Context, eventID uuid.UUID) ([]Registration, error) {
	return s.store.ListConfirmedByEvent(ctx, eventID)
}
