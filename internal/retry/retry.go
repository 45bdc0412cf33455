package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = time.Second
)

// Policy governs how Do spaces out and bounds retry attempts.
type Policy struct {
	// MaxAttempts is the total attempt budget, including the first call.
	MaxAttempts int
	// BaseDelay is the unit for the exponential backoff schedule:
	// the n-th failure waits 2^n * BaseDelay before the next attempt.
	BaseDelay time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
	}
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	return p
}

// SleepFunc suspends the current call between attempts. A nil SleepFunc
// passed to Do selects the default context-aware sleep.
type SleepFunc func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do runs op until it succeeds or the attempt budget is spent.
//
// Failures are classified with Classify: a rate-limited failure that carries
// a server-specified delay sleeps exactly that long; everything else falls
// back to exponential backoff. The server-delay path shares the same attempt
// counter as the backoff path. Each call to Do keeps its own counter, so
// concurrent calls never interfere.
//
// The returned error on exhaustion wraps the last attempt's error.
func Do[T any](
	ctx context.Context,
	policy Policy,
	sleep SleepFunc,
	log *slog.Logger,
	op func(ctx context.Context) (T, error),
) (T, error) {
	var zero T

	policy = policy.withDefaults()
	if sleep == nil {
		sleep = defaultSleep
	}
	if log == nil {
		log = slog.Default()
	}

	attempts := 0
	for {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}

		attempts++
		if attempts >= policy.MaxAttempts {
			//nolint:staticcheck // error text matched by callers
			return zero, fmt.Errorf("Failed after %d attempts: %w", attempts, err)
		}

		cls := Classify(err)
		for _, violation := range cls.Violations {
			log.WarnContext(ctx, "Quota violation reported",
				"quotaId", violation.QuotaID,
				"quotaValue", violation.QuotaValue)
		}

		delay := policy.BaseDelay << attempts
		if cls.RateLimited && cls.RetryDelay > 0 {
			delay = cls.RetryDelay
			log.InfoContext(ctx, "Rate limited, honoring server delay",
				"attempt", attempts,
				"delay", delay,
				"error", err)
		} else {
			log.InfoContext(ctx, "Retrying after backoff",
				"attempt", attempts,
				"delay", delay,
				"error", err)
		}

		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return zero, errors.Join(sleepErr, err)
		}
	}
}
