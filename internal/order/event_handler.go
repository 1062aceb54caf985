package order

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/school-payments/internal/core/events"
)

// AuditSubscriber writes an audit trail of payment lifecycle events. It is
// the only consumer of the event bus today; notification senders would hang
// off the same subscriptions.
type AuditSubscriber struct {
	logger *slog.Logger
}

func NewAuditSubscriber(logger *slog.Logger) *AuditSubscriber {
	return &AuditSubscriber{logger: logger}
}

func (a *AuditSubscriber) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypePaymentInitiated, a.handle)
	bus.Subscribe(events.EventTypePaymentVerified, a.handle)
	bus.Subscribe(events.EventTypePaymentFailed, a.handle)
}

func (a *AuditSubscriber) handle(ctx context.Context, event events.Event) error {
	a.logger.Info("payment event",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"payload", event.Payload())
	return nil
}
