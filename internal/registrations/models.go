package registrations

import (
	"time"

	"github.com/google/uuid"
)

// Registration is one user's claim on one event. CreatedAt is the FIFO
// tie-breaker for waitlist ordering and never changes after creation.
type Registration struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	EventID  uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	Quantity int       `json:"quantity" gorm:"not null;check:quantity >= 1"`
	Status   Status    `json:"status" gorm:"type:varchar(20);not null;index"`

	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// TableName specifies the table name for GORM
func (Registration) TableName() string {
	return "registrations"
}

func (r *Registration) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

func (r *Registration) IsWaitlisted() bool {
	return r.Status == StatusWaitlisted
}

func (r *Registration) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// Cancel marks the registration cancelled. The caller is responsible for
// releasing capacity when the registration held confirmed seats.
func (r *Registration) Cancel() {
	now := time.Now()
	r.Status = StatusCancelled
	r.CancelledAt = &now
	r.UpdatedAt = now
}
