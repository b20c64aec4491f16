package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoRetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	policy := Policy{MaxRetries: 3}

	err := policy.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoStopsAfterAttemptsExhausted(t *testing.T) {
	t.Parallel()

	calls := 0
	lastErr := errors.New("still broken")
	policy := Policy{MaxRetries: 2}

	err := policy.Do(context.Background(), func() error {
		calls++
		return lastErr
	})

	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}

	if !errors.Is(err, lastErr) {
		t.Fatalf("expected last error, got %v", err)
	}
}

func TestDoTerminalShortCircuits(t *testing.T) {
	t.Parallel()

	calls := 0
	fatal := errors.New("unrecoverable")
	policy := Policy{MaxRetries: 5}

	err := policy.Do(context.Background(), func() error {
		calls++
		return Terminal(fatal)
	})

	if calls != 1 {
		t.Fatalf("expected single call, got %d", calls)
	}

	if !errors.Is(err, fatal) {
		t.Fatalf("expected terminal cause, got %v", err)
	}
}

func TestDoAbortsWaitOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	policy := Policy{
		MaxRetries: 3,
		Backoff:    func(int) time.Duration { return 50 * time.Millisecond },
	}

	err := policy.Do(ctx, func() error {
		calls++
		return errors.New("transient")
	})

	if calls != 1 {
		t.Fatalf("expected single call, got %d", calls)
	}

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTerminalNil(t *testing.T) {
	t.Parallel()

	if Terminal(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestExponentialBackoff(t *testing.T) {
	t.Parallel()

	backoff := ExponentialBackoff(time.Second)

	for attempt := 0; attempt < 4; attempt++ {
		base := time.Duration(1<<attempt) * time.Second
		got := backoff(attempt)
		if got < base || got >= base+time.Second {
			t.Fatalf("attempt %d: expected delay in [%s, %s), got %s", attempt, base, base+time.Second, got)
		}
	}
}
