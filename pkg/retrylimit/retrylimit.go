// Package retrylimit provides a bounded retry helper for lookups against external
// state that may not be ready yet (e.g. guilds arriving after the gateway opens).
//
// Example usage:
//
//	policy := retrylimit.Policy{Attempts: 3, Delay: 4 * time.Second}
//	err := retrylimit.Do(ctx, policy, func(ctx context.Context) error {
//	    return findGuild()
//	})
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// Policy
// =============================================================================

// Policy configures a bounded retry.
type Policy struct {
	Attempts  int                          // Total attempts, including the first (values < 1 mean 1)
	Delay     time.Duration                // Fixed delay between attempts
	Retryable func(error) bool             // Which errors are worth another attempt (nil = all)
	OnRetry   func(attempt int, err error) // Optional callback before each sleep
}

// ErrExhausted wraps the last error once every attempt has failed.
var ErrExhausted = errors.New("retry attempts exhausted")

// FatalError wraps errors that should stop retries immediately.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// Fatal marks err as not retryable.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// =============================================================================
// Retry
// =============================================================================

// Do runs fn until it succeeds, returns a FatalError or a non-retryable error,
// the context is done, or the policy runs out of attempts.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}

		var fatal *FatalError
		if errors.As(err, &fatal) {
			return fatal.Err
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}

		timer := time.NewTimer(p.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, err)
}
