// Package retry provides bounded retry with exponential backoff for calls
// to external providers. Only failures classified as transient are retried;
// permanent failures and exhausted retries propagate to the caller unchanged.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// StatusCoder is implemented by errors that carry an HTTP-like status code.
type StatusCoder interface {
	StatusCode() int
}

// Categorized is implemented by errors that carry a coarse failure category.
type Categorized interface {
	Category() string
}

// Transient failure categories recognized by IsTransient.
const (
	CategoryRateLimit  = "rate_limit"
	CategoryTimeout    = "timeout"
	CategoryConnection = "connection"
	CategoryServer     = "server"
)

var transientCategories = map[string]bool{
	CategoryRateLimit:  true,
	CategoryTimeout:    true,
	CategoryConnection: true,
	CategoryServer:     true,
}

// Policy holds backoff parameters for retrying transient failures.
// The delay before attempt n is min(MaxDelay, BaseDelay*2^n + jitter),
// with jitter drawn uniformly from [0, Jitter).
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     time.Duration
}

// DefaultPolicy returns the standard policy: 2 retries (3 total attempts),
// 500ms base delay doubling per attempt, capped at 4s, up to 200ms jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 2,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   4 * time.Second,
		Jitter:     200 * time.Millisecond,
	}
}

// IsTransient reports whether err represents a failure worth retrying:
// an HTTP-like status of 429 or 500-599, a recognized transient category,
// or a deadline expiry. Wrapped causes are examined through errors.As.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		code := sc.StatusCode()
		if code == 429 || (code >= 500 && code <= 599) {
			return true
		}
	}

	var cat Categorized
	if errors.As(err, &cat) && transientCategories[cat.Category()] {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}

// Do invokes fn, retrying transient failures according to the policy.
// The final error is returned unchanged once retries are exhausted or the
// failure is permanent. Backoff waits respect ctx cancellation.
func Do[T any](ctx context.Context, p Policy, fn func() (T, error)) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		if !IsTransient(err) || attempt >= p.MaxRetries {
			return zero, err
		}

		if sleepErr := sleep(ctx, p.delay(attempt)); sleepErr != nil {
			return zero, err
		}
	}
}

func (p Policy) delay(attempt int) time.Duration {
	d := p.BaseDelay << attempt
	if p.Jitter > 0 {
		d += time.Duration(rand.Int64N(int64(p.Jitter)))
	}
	if p.MaxDelay > 0 {
		d = min(d, p.MaxDelay)
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
