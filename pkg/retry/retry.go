// Package retry provides backoff policies and retry helpers.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy configures an exponential backoff.
type Policy struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	// Jitter is the randomization factor in [0, 1].
	Jitter float64
}

// DefaultPolicy backs off from half a second up to ten minutes.
func DefaultPolicy() Policy {
	return Policy{
		Initial:    500 * time.Millisecond,
		Max:        10 * time.Minute,
		Multiplier: 2,
		Jitter:     0.25,
	}
}

// NewBackOff returns a backoff that never gives up on its own.
func (p Policy) NewBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.Initial > 0 {
		b.InitialInterval = p.Initial
	}
	if p.Max > 0 {
		b.MaxInterval = p.Max
	}
	if p.Multiplier >= 1 {
		b.Multiplier = p.Multiplier
	}
	b.RandomizationFactor = p.Jitter
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Classifier reports whether an error is worth retrying.
type Classifier func(error) bool

// Notify is called after a failed attempt with the delay before the next one.
type Notify func(err error, attempt int, next time.Duration)

// UpTo runs op until it succeeds, fails with an error the classifier rejects, or has been retried retries
// times. Delays start at initial and double after each attempt. The last error is returned unwrapped.
func UpTo[T any](
	ctx context.Context,
	retries uint64,
	initial time.Duration,
	retryable Classifier,
	op func(ctx context.Context, attempt int) (T, error),
	notify Notify,
) (T, error) {
	policy := Policy{Initial: initial, Multiplier: 2}
	b := backoff.WithContext(backoff.WithMaxRetries(policy.NewBackOff(), retries), ctx)

	attempt := 0
	return backoff.RetryNotifyWithData(func() (T, error) {
		attempt++
		v, err := op(ctx, attempt)
		if err != nil && retryable != nil && !retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, b, func(err error, next time.Duration) {
		if notify != nil {
			notify(err, attempt, next)
		}
	})
}
