package notifier

import (
	"accountant-assistant/internal/core/domain"
	"accountant-assistant/internal/core/port"
	"context"
	"errors"
)

type fanout struct {
	notifiers []port.Notifier
}

// NewFanout delivers each notification to every non nil notifier, even when some fail
func NewFanout(notifiers ...port.Notifier) port.Notifier {
	f := &fanout{}
	for _, n := range notifiers {
		if n != nil {
			f.notifiers = append(f.notifiers, n)
		}
	}
	return f
}

func (f *fanout) Notify(ctx context.Context, n domain.Notification) error {
	var errs []error
	for _, notifier := range f.notifiers {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
