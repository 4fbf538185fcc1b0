package deadline

import (
	"context"
	"fmt"
	"time"
)

// ErrTimeout is returned by Race when the timer wins. It matches
// context.DeadlineExceeded with errors.Is.
var ErrTimeout = fmt.Errorf("operation timed out: %w", context.DeadlineExceeded)

type result[T any] struct {
	value T
	err   error
}

// Race runs fn against a timer of d. Whichever finishes first wins and the
// loser is cancelled: fn's context is cancelled when the timer fires, and
// fn's result is discarded if it arrives after. A d <= 0 runs fn without a
// timer.
func Race[T any](ctx context.Context, d time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if d <= 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan result[T], 1)
	go func() {
		value, err := fn(ctx)
		done <- result[T]{value: value, err: err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	var zero T
	select {
	case r := <-done:
		return r.value, r.err
	case <-timer.C:
		return zero, ErrTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
