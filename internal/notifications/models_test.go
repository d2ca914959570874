package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"campusevents/internal/ledger"
	"campusevents/internal/registrations"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationBuilder(t *testing.T) {
	recipient := uuid.New()
	eventID := uuid.New()
	registrationID := uuid.New()

	notification := NewNotificationBuilder().
		WithType(NotificationTypeWaitlistPromoted).
		WithRecipient(recipient).
		WithEventContext(eventID).
		WithRegistrationContext(registrationID).
		WithTemplateData(map[string]interface{}{"quantity": 2}).
		Build()

	assert.NotEqual(t, uuid.Nil, notification.ID)
	assert.Equal(t, NotificationTypeWaitlistPromoted, notification.Type)
	assert.Equal(t, NotificationPriorityHigh, notification.Priority)
	assert.Equal(t, recipient, notification.RecipientID)
	require.NotNil(t, notification.EventID)
	assert.Equal(t, eventID, *notification.EventID)
	require.NotNil(t, notification.RegistrationID)
	assert.Equal(t, registrationID, *notification.RegistrationID)
	assert.Equal(t, NotificationStatusPending, notification.Status)
}

func TestGetDefaultPriority(t *testing.T) {
	assert.Equal(t, NotificationPriorityHigh, GetDefaultPriority(NotificationTypeWaitlistPromoted))
	assert.Equal(t, NotificationPriorityMedium, GetDefaultPriority(NotificationTypeRegistrationConfirmed))
	assert.Equal(t, NotificationPriorityMedium, GetDefaultPriority(NotificationTypeTicketsIssued))
	assert.Equal(t, NotificationPriorityLow, GetDefaultPriority(NotificationTypeRegistrationWaitlisted))
	assert.Equal(t, NotificationPriorityLow, GetDefaultPriority(NotificationTypeRegistrationCancelled))
}

func TestNotification_PartitionKeyIsRecipient(t *testing.T) {
	recipient := uuid.New()
	notification := NewNotificationBuilder().
		WithType(NotificationTypeRegistrationConfirmed).
		WithRecipient(recipient).
		Build()

	assert.Equal(t, recipient.String(), notification.GetPartitionKey())
}

func TestNotification_ToJSONRoundTrip(t *testing.T) {
	notification := NewNotificationBuilder().
		WithType(NotificationTypeRegistrationConfirmed).
		WithRecipient(uuid.New()).
		WithTemplateData(map[string]interface{}{"quantity": 3}).
		Build()

	data, err := notification.ToJSON()
	require.NoError(t, err)

	var decoded Notification
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, notification.ID, decoded.ID)
	assert.Equal(t, notification.Type, decoded.Type)
	assert.Nil(t, decoded.EventID)
}

func TestNotification_MarkFailed(t *testing.T) {
	notification := NewNotificationBuilder().
		WithType(NotificationTypeTicketsIssued).
		Build()

	notification.MarkFailed(errors.New("broker unavailable"))

	assert.Equal(t, NotificationStatusFailed, notification.Status)
	require.NotNil(t, notification.LastError)
	assert.Equal(t, "broker unavailable", *notification.LastError)
}

// --- Publisher ---

type capturingProducer struct {
	published []*Notification
	err       error
}

func (p *capturingProducer) PublishNotification(ctx context.Context, notification *Notification) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, notification)
	return nil
}

func (p *capturingProducer) Close() error { return nil }

func TestPublisher_NilProducerDropsSilently(t *testing.T) {
	publisher := NewPublisher(nil)

	reg := &registrations.Registration{ID: uuid.New(), UserID: uuid.New(), EventID: uuid.New(), Quantity: 1}

	// Must not panic with no producer wired.
	publisher.RegistrationConfirmed(context.Background(), reg)
	publisher.RegistrationCancelled(context.Background(), reg)
}

func TestPublisher_RegistrationWaitlistedCarriesPosition(t *testing.T) {
	producer := &capturingProducer{}
	publisher := NewPublisher(producer)

	reg := &registrations.Registration{ID: uuid.New(), UserID: uuid.New(), EventID: uuid.New(), Quantity: 2}
	publisher.RegistrationWaitlisted(context.Background(), reg, 3)

	require.Len(t, producer.published, 1)
	notification := producer.published[0]
	assert.Equal(t, NotificationTypeRegistrationWaitlisted, notification.Type)
	assert.Equal(t, reg.UserID, notification.RecipientID)
	assert.Equal(t, 3, notification.TemplateData["position"])
}

func TestPublisher_WaitlistPromotedFansOut(t *testing.T) {
	producer := &capturingProducer{}
	publisher := NewPublisher(producer)

	eventID := uuid.New()
	promotions := []ledger.Promotion{
		{RegistrationID: uuid.New(), UserID: uuid.New(), Quantity: 1},
		{RegistrationID: uuid.New(), UserID: uuid.New(), Quantity: 2},
	}

	publisher.WaitlistPromoted(context.Background(), eventID, promotions)

	require.Len(t, producer.published, 2)
	for i, notification := range producer.published {
		assert.Equal(t, NotificationTypeWaitlistPromoted, notification.Type)
		assert.Equal(t, promotions[i].UserID, notification.RecipientID)
		require.NotNil(t, notification.EventID)
		assert.Equal(t, eventID, *notification.EventID)
	}
}

func TestPublisher_ProducerErrorNeverPropagates(t *testing.T) {
	producer := &capturingProducer{err: errors.New("kafka down")}
	publisher := NewPublisher(producer)

	reg := &registrations.Registration{ID: uuid.New(), UserID: uuid.New(), EventID: uuid.New(), Quantity: 1}

	// Publishing failures are logged, never surfaced.
	publisher.RegistrationConfirmed(context.Background(), reg)
}
