package application

import (
	"context"
	"errors"

	"voteparty/internal/ports/output"
)

// MultiNotifier sends each event to every notifier, even when one fails.
type MultiNotifier []output.LifecycleNotifier

func (m MultiNotifier) Notify(ctx context.Context, event output.LifecycleEvent) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
