// Package clock holds the timing helpers of the sync loop.
package clock

import (
	"context"
	"errors"
	"time"
)

// ErrInterrupted is the cancel cause of a context ended by WithInterrupt.
var ErrInterrupted = errors.New("interrupted")

// SleepWithContext waits for d or returns the context error if ctx ends first.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WithInterrupt derives a context that is canceled with ErrInterrupted once interrupt is closed.
func WithInterrupt(parent context.Context, interrupt <-chan struct{}) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	go func() {
		select {
		case <-interrupt:
			cancel(ErrInterrupted)
		case <-ctx.Done():
		}
	}()
	return ctx, func() { cancel(context.Canceled) }
}
