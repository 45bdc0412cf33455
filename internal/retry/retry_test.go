package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func recordSleeps(sleeps *[]time.Duration) SleepFunc {
	return func(_ context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
}

func TestDoFirstAttemptSuccess(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	got, err := Do(context.Background(), DefaultPolicy(), recordSleeps(&sleeps), discardLogger(),
		func(context.Context) (string, error) {
			calls++
			return "ok", nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "ok" {
		t.Errorf("unexpected result: %q", got)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
	if len(sleeps) != 0 {
		t.Errorf("expected no sleeps, got %v", sleeps)
	}
}

func TestDoExponentialBackoffUntilExhaustion(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	policy := Policy{MaxAttempts: 3, BaseDelay: time.Second}

	_, err := Do(context.Background(), policy, recordSleeps(&sleeps), discardLogger(),
		func(context.Context) (int, error) {
			calls++
			return 0, errors.New("connection reset")
		})
	if err == nil {
		t.Fatalf("expected exhaustion error")
	}

	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}

	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("expected sleeps %v, got %v", want, sleeps)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("sleep %d: expected %v, got %v", i, want[i], sleeps[i])
		}
	}

	if !strings.Contains(err.Error(), "Failed after 3 attempts:") {
		t.Errorf("unexpected error message: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("exhaustion error must carry the original message, got %q", err.Error())
	}
}

func TestDoExhaustionWrapsLastError(t *testing.T) {
	sentinel := errors.New("boom")

	_, err := Do(context.Background(), Policy{MaxAttempts: 2, BaseDelay: time.Second},
		recordSleeps(&[]time.Duration{}), discardLogger(),
		func(context.Context) (struct{}, error) {
			return struct{}{}, sentinel
		})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected exhaustion error to wrap the last attempt error, got %v", err)
	}
}

func TestDoHonorsServerDelay(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	rateLimited := &APIError{
		Code:    429,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exceeded",
		Details: []Detail{{RetryDelay: "40s"}},
	}

	got, err := Do(context.Background(), DefaultPolicy(), recordSleeps(&sleeps), discardLogger(),
		func(context.Context) (string, error) {
			calls++
			if calls == 1 {
				return "", rateLimited
			}
			return "done", nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "done" {
		t.Errorf("unexpected result: %q", got)
	}
	if len(sleeps) != 1 || sleeps[0] != 40*time.Second {
		t.Errorf("expected a single 40s sleep, got %v", sleeps)
	}
}

func TestDoServerDelayFromEmbeddedPayload(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	msg := `generate content: {"error":{"code":429,"status":"RESOURCE_EXHAUSTED",` +
		`"message":"rate limited","details":[{"retryDelay":"7s"}]}}`

	_, err := Do(context.Background(), Policy{MaxAttempts: 2, BaseDelay: time.Second},
		recordSleeps(&sleeps), discardLogger(),
		func(context.Context) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New(msg)
			}
			return "done", nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sleeps) != 1 || sleeps[0] != 7*time.Second {
		t.Errorf("expected a single 7s sleep, got %v", sleeps)
	}
}

func TestDoEventualSuccess(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	got, err := Do(context.Background(), Policy{MaxAttempts: 5, BaseDelay: time.Second},
		recordSleeps(&sleeps), discardLogger(),
		func(context.Context) (int, error) {
			calls++
			if calls < 3 {
				return 0, fmt.Errorf("transient failure %d", calls)
			}
			return 42, nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != 42 {
		t.Errorf("unexpected result: %d", got)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}

	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(sleeps) != len(want) || sleeps[0] != want[0] || sleeps[1] != want[1] {
		t.Errorf("expected sleeps %v, got %v", want, sleeps)
	}
}

func TestDoStopsWhenContextCanceledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attemptErr := errors.New("transient")
	sleep := func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := Do(ctx, DefaultPolicy(), sleep, discardLogger(),
		func(context.Context) (string, error) {
			return "", attemptErr
		})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
	if !errors.Is(err, attemptErr) {
		t.Errorf("expected the last attempt error to be preserved, got %v", err)
	}
}

func TestDoZeroPolicyUsesDefaults(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	_, err := Do(context.Background(), Policy{}, recordSleeps(&sleeps), discardLogger(),
		func(context.Context) (string, error) {
			calls++
			return "", errors.New("always failing")
		})
	if err == nil {
		t.Fatalf("expected exhaustion error")
	}

	if calls != DefaultMaxAttempts {
		t.Errorf("expected %d attempts, got %d", DefaultMaxAttempts, calls)
	}
	if !strings.Contains(err.Error(), fmt.Sprintf("Failed after %d attempts:", DefaultMaxAttempts)) {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}
