package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Policy configures retry behavior for a fallible operation.
type Policy struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	MaxAttempts int

	// InitialBackoff is the delay before the second attempt.
	InitialBackoff time.Duration

	// MaxBackoff caps the delay between attempts.
	MaxBackoff time.Duration

	// BackoffFactor multiplies the delay after each failed attempt.
	BackoffFactor float64

	// Jitter randomizes each delay by up to +/- this fraction (0.0-1.0).
	Jitter float64

	// RetryIf decides whether an error is worth retrying. When nil every
	// error is retried until MaxAttempts is reached.
	RetryIf func(error) bool
}

// Default retries three times with exponential backoff.
var Default = Policy{
	MaxAttempts:    3,
	InitialBackoff: 1 * time.Second,
	MaxBackoff:     30 * time.Second,
	BackoffFactor:  2.0,
	Jitter:         0.1,
}

// Aggressive retries more times with shorter delays.
var Aggressive = Policy{
	MaxAttempts:    5,
	InitialBackoff: 500 * time.Millisecond,
	MaxBackoff:     10 * time.Second,
	BackoffFactor:  1.5,
	Jitter:         0.2,
}

// None disables retries.
var None = Policy{MaxAttempts: 1}

// Result reports the outcome of a retried operation.
type Result[T any] struct {
	// Value holds the result of the successful attempt.
	Value T

	// Err is the last error when every attempt failed, wrapped in an
	// ExhaustedError when MaxAttempts was reached.
	Err error

	// Attempts counts the attempts actually made.
	Attempts int

	// Duration is the total wall time including backoff sleeps.
	Duration time.Duration
}

// ExhaustedError wraps the final error after MaxAttempts failures.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry: %d attempts exhausted: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// Do runs fn until it succeeds, the policy gives up, or ctx is done.
//
// The context is checked before each attempt and during each backoff
// sleep. A context error is returned as-is, never wrapped in an
// ExhaustedError, so callers can match it with errors.Is.
func Do[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) Result[T] {
	start := time.Now()
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	backoff := p.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := context.Cause(ctx); err != nil {
			return Result[T]{Err: err, Attempts: attempt - 1, Duration: time.Since(start)}
		}

		value, err := fn(ctx)
		if err == nil {
			return Result[T]{Value: value, Attempts: attempt, Duration: time.Since(start)}
		}
		lastErr = err

		if p.RetryIf != nil && !p.RetryIf(err) {
			return Result[T]{Err: err, Attempts: attempt, Duration: time.Since(start)}
		}
		// Context errors surfacing through fn end the loop too.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result[T]{Err: err, Attempts: attempt, Duration: time.Since(start)}
		}

		if attempt < p.MaxAttempts {
			select {
			case <-ctx.Done():
				return Result[T]{Err: context.Cause(ctx), Attempts: attempt, Duration: time.Since(start)}
			case <-time.After(withJitter(backoff, p.Jitter)):
			}
			backoff = time.Duration(float64(backoff) * p.BackoffFactor)
			if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
				backoff = p.MaxBackoff
			}
		}
	}

	return Result[T]{
		Err:      &ExhaustedError{Attempts: p.MaxAttempts, Err: lastErr},
		Attempts: p.MaxAttempts,
		Duration: time.Since(start),
	}
}

// withJitter randomizes base by up to +/- base*jitter.
func withJitter(base time.Duration, jitter float64) time.Duration {
	if jitter <= 0 || base <= 0 {
		return base
	}
	offset := float64(base) * jitter * (rand.Float64()*2 - 1)
	return time.Duration(float64(base) + offset)
}
