package notify

import (
	"context"
	"errors"

	"github.com/simaogato/cashil-backend/internal/domain"
)

// Fanout delivers every event to all of its notifiers
type Fanout struct {
	notifiers []domain.ChangeNotifier
}

// NewFanout creates a Fanout; nil notifiers are skipped
func NewFanout(notifiers ...domain.ChangeNotifier) *Fanout {
	f := &Fanout{}
	for _, n := range notifiers {
		if n != nil {
			f.notifiers = append(f.notifiers, n)
		}
	}
	return f
}

// NotifyChange calls every notifier even when an earlier one fails; errors are joined
func (f *Fanout) NotifyChange(ctx context.Context, event domain.ChangeEvent) error {
	var errs []error
	for _, n := range f.notifiers {
		if err := n.NotifyChange(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of wired notifiers
func (f *Fanout) Len() int {
	return len(f.notifiers)
}

// Noop discards every event
type Noop struct{}

func (Noop) NotifyChange(context.Context, domain.ChangeEvent) error {
	return nil
}
