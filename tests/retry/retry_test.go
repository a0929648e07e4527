package retry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/veridia/clauseguard/pkg/retry"
)

type statusError struct {
	status int
}

func (e statusError) Error() string   { return fmt.Sprintf("status %d", e.status) }
func (e statusError) StatusCode() int { return e.status }

type categoryError struct {
	category string
}

func (e categoryError) Error() string    { return e.category }
func (e categoryError) Category() string { return e.category }

func fastPolicy(maxRetries int) retry.Policy {
	return retry.Policy{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}
}

func TestDoRetriesTransientThenSucceeds(t *testing.T) {
	attempts := 0
	result, err := retry.Do(context.Background(), fastPolicy(2), func() (string, error) {
		attempts++
		if attempts <= 2 {
			return "", statusError{status: 429}
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %q, want ok", result)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	attempts := 0
	cause := statusError{status: 503}
	_, err := retry.Do(context.Background(), fastPolicy(2), func() (string, error) {
		attempts++
		return "", cause
	})

	if !errors.Is(err, cause) {
		t.Errorf("Do returned %v, want the final attempt's error", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDoPermanentErrorNotRetried(t *testing.T) {
	attempts := 0
	cause := statusError{status: 400}
	_, err := retry.Do(context.Background(), fastPolicy(5), func() (string, error) {
		attempts++
		return "", cause
	})

	if !errors.Is(err, cause) {
		t.Errorf("Do returned %v, want %v", err, cause)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestDoSuccessFirstAttempt(t *testing.T) {
	attempts := 0
	result, err := retry.Do(context.Background(), fastPolicy(2), func() (int, error) {
		attempts++
		return 42, nil
	})

	if err != nil || result != 42 || attempts != 1 {
		t.Errorf("Do = (%d, %v) after %d attempts, want (42, nil) after 1", result, err, attempts)
	}
}

func TestDoContextCancellationStopsBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	cause := statusError{status: 500}
	_, err := retry.Do(ctx, retry.Policy{MaxRetries: 5, BaseDelay: time.Minute}, func() (string, error) {
		attempts++
		cancel()
		return "", cause
	})

	if !errors.Is(err, cause) {
		t.Errorf("Do returned %v, want the attempt's error", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestDoBacksOffWithoutMaxDelay(t *testing.T) {
	attempts := 0
	start := time.Now()
	_, err := retry.Do(context.Background(), retry.Policy{MaxRetries: 1, BaseDelay: 50 * time.Millisecond}, func() (string, error) {
		attempts++
		return "", statusError{status: 429}
	})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if elapsed < 50*time.Millisecond {
		t.Errorf("elapsed = %v, want at least the base delay between attempts", elapsed)
	}
}

func TestDoMaxDelayCapsBackoff(t *testing.T) {
	attempts := 0
	start := time.Now()
	_, err := retry.Do(context.Background(), retry.Policy{
		MaxRetries: 2,
		BaseDelay:  time.Hour,
		MaxDelay:   time.Millisecond,
	}, func() (string, error) {
		attempts++
		return "", statusError{status: 503}
	})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if elapsed > time.Second {
		t.Errorf("elapsed = %v, backoff should be capped at MaxDelay", elapsed)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", statusError{status: 429}, true},
		{"server error", statusError{status: 500}, true},
		{"gateway timeout", statusError{status: 504}, true},
		{"bad request", statusError{status: 400}, false},
		{"unauthorized", statusError{status: 401}, false},
		{"rate limit category", categoryError{category: retry.CategoryRateLimit}, true},
		{"timeout category", categoryError{category: retry.CategoryTimeout}, true},
		{"connection category", categoryError{category: retry.CategoryConnection}, true},
		{"server category", categoryError{category: retry.CategoryServer}, true},
		{"unknown category", categoryError{category: "validation"}, false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"wrapped status", fmt.Errorf("call failed: %w", statusError{status: 429}), true},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retry.IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
