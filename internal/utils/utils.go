package utils

import (
	"context"
	"time"
)

// Sleeper blocks the calling goroutine for the given duration.
type Sleeper func(d time.Duration)

var sleep Sleeper = time.Sleep

// WaitFor blocks for d or until ctx is done, whichever happens first.
func WaitFor(ctx context.Context, d time.Duration) error {
	return WaitWith(ctx, d, sleep)
}

// WaitWith is WaitFor with a caller-provided sleeper. Tests use it to skip real delays.
func WaitWith(ctx context.Context, d time.Duration, s Sleeper) error {
	if d <= 0 {
		return nil
	}

	if s == nil {
		s = time.Sleep
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
