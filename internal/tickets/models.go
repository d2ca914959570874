package tickets

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is one admission credential minted from a confirmed registration.
// A registration with quantity N gets exactly N tickets, minted once.
type Ticket struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RegistrationID uuid.UUID `json:"registration_id" gorm:"type:uuid;not null;index"`
	EventID        uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Code           string    `json:"code" gorm:"uniqueIndex;not null;size:32"`
	Status         Status    `json:"status" gorm:"type:varchar(20);not null;default:'ACTIVE'"`

	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

// TableName specifies the table name for GORM
func (Ticket) TableName() string {
	return "tickets"
}

func (t *Ticket) IsActive() bool {
	return t.Status == StatusActive
}

// TicketResponse is a ticket as reported to API callers, with the QR image
// URL resolved by the configured encoder.
type TicketResponse struct {
	ID             uuid.UUID  `json:"id"`
	RegistrationID uuid.UUID  `json:"registration_id"`
	EventID        uuid.UUID  `json:"event_id"`
	Code           string     `json:"code"`
	QRCodeURL      string     `json:"qr_code_url,omitempty"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UsedAt         *time.Time `json:"used_at,omitempty"`
}

// IssueResponse reports a mint run. AlreadyIssued is true when the tickets
// existed before this call.
type IssueResponse struct {
	RegistrationID uuid.UUID        `json:"registration_id"`
	Tickets        []TicketResponse `json:"tickets"`
	AlreadyIssued  bool             `json:"already_issued"`
}

// CheckInResponse reports a successful check-in.
type CheckInResponse struct {
	Ticket TicketResponse `json:"ticket"`
}

// CheckInRequest carries the scanned ticket code.
type CheckInRequest struct {
	Code string `json:"code" binding:"required"`
}
