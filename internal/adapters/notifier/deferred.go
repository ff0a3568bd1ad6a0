package notifier

import (
	"accountant-assistant/internal/core/domain"
	"accountant-assistant/internal/core/port"
	"context"
	"sync/atomic"
)

// Deferred forwards notifications to a notifier bound after construction.
// Notifications sent before Bind are dropped.
type Deferred struct {
	target atomic.Pointer[port.Notifier]
}

func NewDeferred() *Deferred {
	return &Deferred{}
}

// Bind sets the notifier receiving every later notification
func (d *Deferred) Bind(n port.Notifier) {
	d.target.Store(&n)
}

func (d *Deferred) Notify(ctx context.Context, n domain.Notification) error {
	target := d.target.Load()
	if target == nil || *target == nil {
		return nil
	}
	return (*target).Notify(ctx, n)
}
