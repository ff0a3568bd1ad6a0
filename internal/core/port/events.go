package port

import (
	"accountant-assistant/internal/core/domain"
	"context"
)

// Notifier delivers upload outcome notifications (log, broker, websocket ...)
type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification) error
}

// EventPublisher is an interface to define an event publisher (nats, kafka, ...)
type EventPublisher interface {
	Notifier
	Close() error
}
