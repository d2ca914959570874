package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeRegistrationConfirmed  NotificationType = "REGISTRATION_CONFIRMED"
	NotificationTypeRegistrationWaitlisted NotificationType = "REGISTRATION_WAITLISTED"
	NotificationTypeWaitlistPromoted       NotificationType = "WAITLIST_PROMOTED"
	NotificationTypeRegistrationCancelled  NotificationType = "REGISTRATION_CANCELLED"
	NotificationTypeTicketsIssued          NotificationType = "TICKETS_ISSUED"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "LOW"
	NotificationPriorityMedium NotificationPriority = "MEDIUM"
	NotificationPriorityHigh   NotificationPriority = "HIGH"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusQueued  NotificationStatus = "QUEUED"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// Notification is the message published to the notification pipeline. A
// downstream consumer owns rendering and delivery.
type Notification struct {
	ID       uuid.UUID            `json:"id"`
	Type     NotificationType     `json:"type"`
	Priority NotificationPriority `json:"priority"`

	RecipientID uuid.UUID `json:"recipient_id"`

	TemplateData map[string]interface{} `json:"template_data"`

	EventID        *uuid.UUID `json:"event_id,omitempty"`
	RegistrationID *uuid.UUID `json:"registration_id,omitempty"`

	Status    NotificationStatus `json:"status"`
	LastError *string            `json:"last_error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type NotificationBuilder struct {
	notification *Notification
}

func NewNotificationBuilder() *NotificationBuilder {
	return &NotificationBuilder{
		notification: &Notification{
			ID:           uuid.New(),
			Status:       NotificationStatusPending,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
			TemplateData: make(map[string]interface{}),
		},
	}
}

func (nb *NotificationBuilder) WithType(notType NotificationType) *NotificationBuilder {
	nb.notification.Type = notType
	nb.notification.Priority = GetDefaultPriority(notType)
	return nb
}

func (nb *NotificationBuilder) WithRecipient(userID uuid.UUID) *NotificationBuilder {
	nb.notification.RecipientID = userID
	return nb
}

func (nb *NotificationBuilder) WithTemplateData(data map[string]interface{}) *NotificationBuilder {
	nb.notification.TemplateData = data
	return nb
}

func (nb *NotificationBuilder) WithEventContext(eventID uuid.UUID) *NotificationBuilder {
	nb.notification.EventID = &eventID
	return nb
}

func (nb *NotificationBuilder) WithRegistrationContext(registrationID uuid.UUID) *NotificationBuilder {
	nb.notification.RegistrationID = &registrationID
	return nb
}

func (nb *NotificationBuilder) Build() *Notification {
	return nb.notification
}

func GetDefaultPriority(notType NotificationType) NotificationPriority {
	switch notType {
	case NotificationTypeWaitlistPromoted:
		return NotificationPriorityHigh
	case NotificationTypeRegistrationConfirmed, NotificationTypeTicketsIssued:
		return NotificationPriorityMedium
	default:
		return NotificationPriorityLow
	}
}

// GetPartitionKey keys messages by recipient so one user's notifications
// stay ordered.
func (n *Notification) GetPartitionKey() string {
	return n.RecipientID.String()
}

func (n *Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func (n *Notification) MarkFailed(err error) {
	now := time.Now()
	n.Status = NotificationStatusFailed
	n.UpdatedAt = now

	errorStr := err.Error()
	n.LastError = &errorStr
}
