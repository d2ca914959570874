package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the aggregate root for capacity control. TotalCapacity is the
// fixed ceiling; Capacity is the remaining confirmable seats and is mutated
// only through the ledger, under the event row lock.
type Event struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `json:"name" gorm:"not null;size:255"`
	Description   string    `json:"description" gorm:"type:text"`
	Venue         string    `json:"venue" gorm:"not null;size:255"`
	StartsAt      time.Time `json:"starts_at" gorm:"not null"`
	TotalCapacity int       `json:"total_capacity" gorm:"not null;check:total_capacity > 0"`
	Capacity      int       `json:"capacity" gorm:"not null;check:capacity >= 0"`
	Status        Status    `json:"status" gorm:"type:varchar(20);default:'UPCOMING';index"`

	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

// ConfirmedSeats returns the number of seats currently held by confirmed
// registrations.
func (e *Event) ConfirmedSeats() int {
	return e.TotalCapacity - e.Capacity
}

type EventResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Venue          string    `json:"venue"`
	StartsAt       time.Time `json:"starts_at"`
	TotalCapacity  int       `json:"total_capacity"`
	Capacity       int       `json:"capacity"`
	ConfirmedSeats int       `json:"confirmed_seats"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:             e.ID.String(),
		Name:           e.Name,
		Description:    e.Description,
		Venue:          e.Venue,
		StartsAt:       e.StartsAt,
		TotalCapacity:  e.TotalCapacity,
		Capacity:       e.Capacity,
		ConfirmedSeats: e.ConfirmedSeats(),
		Status:         e.Status,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

type CreateEventRequest struct {
	Name          string    `json:"name" binding:"required,min=3,max=255"`
	Description   string    `json:"description" binding:"max=2000"`
	Venue         string    `json:"venue" binding:"required,min=3,max=255"`
	StartsAt      time.Time `json:"starts_at" binding:"required"`
	TotalCapacity int       `json:"total_capacity" binding:"required,min=1,max=100000"`
}

type UpdateEventRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=3,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Venue       *string    `json:"venue" binding:"omitempty,min=3,max=255"`
	StartsAt    *time.Time `json:"starts_at"`
}

type UpdateCapacityRequest struct {
	TotalCapacity int `json:"total_capacity" binding:"required,min=1,max=100000"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=UPCOMING ONGOING COMPLETED CANCELLED"`
}

type EventListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
	Venue  string `form:"venue"`
	Status string `form:"status" binding:"omitempty,oneof=UPCOMING ONGOING COMPLETED CANCELLED"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// CapacityChange reports the outcome of a capacity edit: the seats freed by
// raising the ceiling and the promotions those seats allowed.
type CapacityChange struct {
	Event      EventResponse `json:"event"`
	FreedSeats int           `json:"freed_seats"`
	Promoted   []PromotedRef `json:"promoted"`
}

// PromotedRef is a promotion as reported to API callers.
type PromotedRef struct {
	RegistrationID string `json:"registration_id"`
	UserID         string `json:"user_id"`
	Quantity       int    `json:"quantity"`
}

// PromotionResult reports the outcome of an explicit promotion run.
type PromotionResult struct {
	Promoted          []PromotedRef `json:"promoted"`
	RemainingCapacity int           `json:"remaining_capacity"`
}
