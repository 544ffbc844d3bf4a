package billing

import (
	"context"
	"errors"
	"log/slog"
)

// EventHandler processes a single verified webhook event.
type EventHandler func(ctx context.Context, event *Event) error

// WebhookHandlers holds the caller-supplied callbacks for the event types
// the donation flow cares about. Nil handlers are simply not invoked.
type WebhookHandlers struct {
	SubscriptionCreated EventHandler
	SubscriptionUpdated EventHandler
	SubscriptionDeleted EventHandler
	PaymentSucceeded    EventHandler
}

// HandleWebhook verifies an incoming webhook payload and dispatches the
// decoded event to the registered handler for its type. A payload failing
// signature verification returns an error matching ErrWebhookSignature and
// never reaches any handler. Unrecognized event types are ignored without
// error.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(ctx, payload, signature)
	if err != nil {
		s.log.WarnContext(ctx, "webhook rejected", slog.Any("error", err))
		return errors.Join(ErrWebhookSignature, err)
	}

	var handler EventHandler
	switch event.Type {
	case EventSubscriptionCreated:
		handler = s.handlers.SubscriptionCreated
	case EventSubscriptionUpdated:
		handler = s.handlers.SubscriptionUpdated
	case EventSubscriptionDeleted:
		handler = s.handlers.SubscriptionDeleted
	case EventPaymentSucceeded:
		handler = s.handlers.PaymentSucceeded
	default:
		s.log.DebugContext(ctx, "ignoring webhook event", slog.String("type", event.ProviderEvent))
		return nil
	}

	if handler == nil {
		return nil
	}
	return handler(ctx, event)
}
