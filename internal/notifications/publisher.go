package notifications

import (
	"context"

	"campusevents/internal/ledger"
	"campusevents/internal/registrations"
	"campusevents/pkg/logger"

	"github.com/google/uuid"
)

// Publisher adapts the notification pipeline to the Notifier interfaces the
// domain services declare. Publishing runs after the owning transaction has
// committed and never fails the request: a broker outage costs a
// notification, not a registration.
type Publisher struct {
	producer NotificationProducer
	log      *logger.Logger
}

// NewPublisher creates a publisher over the given producer. A nil producer
// yields a publisher that drops everything, used when Kafka is disabled.
func NewPublisher(producer NotificationProducer) *Publisher {
	return &Publisher{
		producer: producer,
		log:      logger.GetDefault(),
	}
}

func (p *Publisher) publish(ctx context.Context, notification *Notification) {
	if p.producer == nil {
		return
	}
	if err := p.producer.PublishNotification(ctx, notification); err != nil {
		p.log.ErrorWithContext(ctx, "failed to publish notification", err, map[string]interface{}{
			"type":      string(notification.Type),
			"recipient": notification.RecipientID.String(),
		})
	}
}

func (p *Publisher) RegistrationConfirmed(ctx context.Context, reg *registrations.Registration) {
	p.publish(ctx, NewNotificationBuilder().
		WithType(NotificationTypeRegistrationConfirmed).
		WithRecipient(reg.UserID).
		WithEventContext(reg.EventID).
		WithRegistrationContext(reg.ID).
		WithTemplateData(map[string]interface{}{
			"quantity": reg.Quantity,
		}).
		Build())
}

func (p *Publisher) RegistrationWaitlisted(ctx context.Context, reg *registrations.Registration, position int) {
	p.publish(ctx, NewNotificationBuilder().
		WithType(NotificationTypeRegistrationWaitlisted).
		WithRecipient(reg.UserID).
		WithEventContext(reg.EventID).
		WithRegistrationContext(reg.ID).
		WithTemplateData(map[string]interface{}{
			"quantity": reg.Quantity,
			"position": position,
		}).
		Build())
}

func (p *Publisher) RegistrationCancelled(ctx context.Context, reg *registrations.Registration) {
	p.publish(ctx, NewNotificationBuilder().
		WithType(NotificationTypeRegistrationCancelled).
		WithRecipient(reg.UserID).
		WithEventContext(reg.EventID).
		WithRegistrationContext(reg.ID).
		Build())
}

// WaitlistPromoted fans out one notification per promoted registration.
func (p *Publisher) WaitlistPromoted(ctx context.Context, eventID uuid.UUID, promotions []ledger.Promotion) {
	for _, promo := range promotions {
		p.publish(ctx, NewNotificationBuilder().
			WithType(NotificationTypeWaitlistPromoted).
			WithRecipient(promo.UserID).
			WithEventContext(eventID).
			WithRegistrationContext(promo.RegistrationID).
			WithTemplateData(map[string]interface{}{
				"quantity": promo.Quantity,
			}).
			Build())
	}
}

func (p *Publisher) TicketsIssued(ctx context.Context, registrationID, eventID, userID uuid.UUID, count int) {
	p.publish(ctx, NewNotificationBuilder().
		WithType(NotificationTypeTicketsIssued).
		WithRecipient(userID).
		WithEventContext(eventID).
		WithRegistrationContext(registrationID).
		WithTemplateData(map[string]interface{}{
			"ticket_count": count,
		}).
		Build())
}
