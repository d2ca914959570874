package tickets

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"campusevents/internal/registrations"
	"campusevents/pkg/logger"

	"github.com/google/uuid"
)

// Notifier informs the user when their tickets are minted.
type Notifier interface {
	TicketsIssued(ctx context.Context, registrationID, eventID, userID uuid.UUID, count int)
}

// Service is the ticket issuance gate: tickets are minted exactly once per
// confirmed registration, and check-in consumes them.
type Service interface {
	SetNotifier(notifier Notifier)
	SetEncoder(encoder Encoder)

	Issue(ctx context.Context, registrationID, callerID uuid.UUID, isAdmin bool) (*IssueResponse, error)
	GetByCode(ctx context.Context, code string) (*TicketResponse, error)
	ListByRegistration(ctx context.Context, registrationID, callerID uuid.UUID, isAdmin bool) ([]TicketResponse, error)
	CheckIn(ctx context.Context, code string) (*CheckInResponse, error)
}

type service struct {
	store    Store
	notifier Notifier
	encoder  Encoder
	log      *logger.Logger
}

func NewService(store Store) Service {
	return &service{
		store: store,
		log:   logger.GetDefault(),
	}
}

func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

func (s *service) SetEncoder(encoder Encoder) {
	s.encoder = encoder
}

// Issue mints one ticket per seat of a confirmed registration. Calling it
// again returns the tickets minted the first time, flagged AlreadyIssued.
// The registration row lock makes concurrent calls serialize, so double
// minting is impossible.
func (s *service) Issue(ctx context.Context, registrationID, callerID uuid.UUID, isAdmin bool) (*IssueResponse, error) {
	var (
		minted        []Ticket
		alreadyIssued bool
	)
	err := s.store.WithRegistrationTx(ctx, registrationID, func(tx RegistrationTx) error {
		minted = nil
		alreadyIssued = false

		reg := tx.Registration()
		if !isAdmin && reg.UserID != callerID {
			return registrations.ErrNotOwner
		}
		if !reg.IsConfirmed() {
			return fmt.Errorf("%w: status is %s", ErrNotConfirmed, reg.Status)
		}

		status, err := tx.EventStatus()
		if err != nil {
			return err
		}
		if !status.AcceptsRegistrations() {
			return fmt.Errorf("%w: event is %s", ErrEventClosed, status)
		}

		existing, err := tx.ExistingTickets()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			minted = existing
			alreadyIssued = true
			return nil
		}

		tickets := make([]Ticket, reg.Quantity)
		for i := range tickets {
			code, err := generateTicketCode()
			if err != nil {
				return fmt.Errorf("failed to generate ticket code: %w", err)
			}
			tickets[i] = Ticket{
				ID:             uuid.New(),
				RegistrationID: reg.ID,
				EventID:        reg.EventID,
				UserID:         reg.UserID,
				Code:           code,
				Status:         StatusActive,
			}
		}
		if err := tx.CreateTickets(tickets); err != nil {
			return err
		}
		minted = tickets
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !alreadyIssued {
		s.log.LogTicketsIssued(ctx, registrationID.String(), len(minted))
		if s.notifier != nil && len(minted) > 0 {
			s.notifier.TicketsIssued(ctx, registrationID, minted[0].EventID, minted[0].UserID, len(minted))
		}
	}

	return &IssueResponse{
		RegistrationID: registrationID,
		Tickets:        s.toResponses(minted),
		AlreadyIssued:  alreadyIssued,
	}, nil
}

func (s *service) GetByCode(ctx context.Context, code string) (*TicketResponse, error) {
	ticket, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(ticket)
	return &resp, nil
}

func (s *service) ListByRegistration(ctx context.Context, registrationID, callerID uuid.UUID, isAdmin bool) ([]TicketResponse, error) {
	tickets, err := s.store.ListByRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		for i := range tickets {
			if tickets[i].UserID != callerID {
				return nil, registrations.ErrNotOwner
			}
		}
	}
	return s.toResponses(tickets), nil
}

// CheckIn consumes an active ticket. Valid while the event is upcoming or
// ongoing; a second scan of the same code is rejected.
func (s *service) CheckIn(ctx context.Context, code string) (*CheckInResponse, error) {
	ticket, err := s.store.CheckIn(ctx, code)
	if err != nil {
		return nil, err
	}

	s.log.LogTicketCheckedIn(ctx, ticket.Code, ticket.EventID.String())

	return &CheckInResponse{Ticket: s.toResponse(ticket)}, nil
}

func (s *service) toResponse(t *Ticket) TicketResponse {
	resp := TicketResponse{
		ID:             t.ID,
		RegistrationID: t.RegistrationID,
		EventID:        t.EventID,
		Code:           t.Code,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
		UsedAt:         t.UsedAt,
	}
	if s.encoder != nil {
		resp.QRCodeURL = s.encoder.ImageURL(t.Code)
	}
	return resp
}

func (s *service) toResponses(tickets []Ticket) []TicketResponse {
	responses := make([]TicketResponse, len(tickets))
	for i := range tickets {
		responses[i] = s.toResponse(&tickets[i])
	}
	return responses
}

// generateTicketCode generates a unique ticket code
func generateTicketCode() (string, error) {
	timestamp := time.Now().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("TKT-%s-%s", timestamp, string(randomPart)), nil
}
