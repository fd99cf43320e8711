package repository

import (
	"context"
	stderrors "errors"
	"time"
)

// ErrNetwork marks git failures caused by the network, such as an
// unreachable host or a remote that hung up. Only these are retried.
var ErrNetwork = stderrors.New("network error")

// retryPolicy controls how often a git operation is attempted.
type retryPolicy struct {
	attempts int
	delay    time.Duration // doubled after each failed attempt

	// onRetry is called before each new attempt with the error that caused it.
	onRetry func(attempt int, err error)
}

var defaultRetry = retryPolicy{attempts: 3, delay: time.Second}

// do runs fn until it succeeds, fails with an error not marked ErrNetwork,
// or runs out of attempts. It returns the last error.
func (p retryPolicy) do(ctx context.Context, fn func() error) error {
	attempts := max(p.attempts, 1)
	delay := p.delay

	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(); err == nil || !stderrors.Is(err, ErrNetwork) {
			return err
		}
		if i == attempts {
			break
		}
		if p.onRetry != nil {
			p.onRetry(i+1, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
