// Package retry provides the attempt/backoff discipline shared by every
// outbound network call site.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/vchernin/hh-scorer/internal/utils"
)

// Policy describes how many times an operation may be reattempted and how
// long to wait between attempts.
type Policy struct {
	// MaxRetries is the number of reattempts after the first try, so the
	// operation runs at most MaxRetries+1 times.
	MaxRetries int
	// Backoff returns the delay before the given reattempt, counted from
	// zero. A nil Backoff means no delay.
	Backoff func(attempt int) time.Duration
}

type terminalError struct {
	err error
}

func (e *terminalError) Error() string { return e.err.Error() }

func (e *terminalError) Unwrap() error { return e.err }

// Terminal marks err so that Do stops the loop immediately and returns it,
// regardless of remaining attempts.
func Terminal(err error) error {
	if err == nil {
		return nil
	}
	return &terminalError{err: err}
}

// Do runs op until it succeeds, returns a terminal error, or all attempts
// are exhausted. The last error is returned as-is.
func (p Policy) Do(ctx context.Context, op func() error) error {
	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		var terminal *terminalError
		if errors.As(err, &terminal) {
			return terminal.err
		}

		lastErr = err

		if attempt == retries {
			break
		}

		if err := utils.WaitFor(ctx, p.backoff(attempt)); err != nil {
			return err
		}
	}

	return lastErr
}

func (p Policy) backoff(attempt int) time.Duration {
	if p.Backoff == nil {
		return 0
	}
	return p.Backoff(attempt)
}

// ExponentialBackoff grows the delay as base*2^attempt plus a uniform random
// jitter in [0,1) seconds to desynchronize retries under bulk failure.
func ExponentialBackoff(base time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		backoff := float64(base) * math.Pow(2, float64(attempt))
		jitter := rand.Float64() * float64(time.Second)
		return time.Duration(backoff + jitter)
	}
}
