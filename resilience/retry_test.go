package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}
	callCount := 0

	result, err := Retry(context.Background(), cfg, func() (string, error) {
		callCount++
		return "success", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %s", result)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestRetry_SucceedsAfterRetries(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}
	callCount := 0

	result, err := Retry(context.Background(), cfg, func() (string, error) {
		callCount++
		if callCount < 3 {
			return "", errors.New("temporary error")
		}
		return "success", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %s", result)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestRetry_SurfacesLastErrorAfterExhaustion(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}
	callCount := 0
	lastErr := errors.New("attempt 4")

	_, err := Retry(context.Background(), cfg, func() (string, error) {
		callCount++
		if callCount == 4 {
			return "", lastErr
		}
		return "", errors.New("earlier attempt")
	})

	// MaxRetries=3 means 4 attempts in total; the final error wins.
	if callCount != 4 {
		t.Errorf("expected 4 calls, got %d", callCount)
	}
	if !errors.Is(err, lastErr) {
		t.Errorf("expected the final attempt's error, got %v", err)
	}
}

func TestRetry_NonRetryableAbortsImmediately(t *testing.T) {
	critical := errors.New("invalid credentials")
	cfg := RetryConfig{
		MaxRetries: 5,
		BaseDelay:  time.Millisecond,
		RetryIf: func(err error) bool {
			return !errors.Is(err, critical)
		},
	}
	callCount := 0

	_, err := Retry(context.Background(), cfg, func() (string, error) {
		callCount++
		return "", critical
	})

	if callCount != 1 {
		t.Errorf("expected exactly 1 call, got %d", callCount)
	}
	if !errors.Is(err, critical) {
		t.Errorf("expected the critical error, got %v", err)
	}
}

func TestRetry_BackoffDelaysDouble(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: 1000 * time.Millisecond}

	want := []time.Duration{1000 * time.Millisecond, 2000 * time.Millisecond, 4000 * time.Millisecond}
	for n, expected := range want {
		if got := backoffDelay(n, cfg); got != expected {
			t.Errorf("delay before retry %d = %v, want %v", n, got, expected)
		}
	}
}

func TestRetry_JitterBoundsDelay(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3, BaseDelay: 100 * time.Millisecond, Jitter: true}

	for i := 0; i < 50; i++ {
		d := backoffDelay(1, cfg)
		// Base for retry 1 is 200ms; jitter multiplies by (1 + rand(0,1)).
		if d < 200*time.Millisecond || d > 400*time.Millisecond {
			t.Fatalf("jittered delay %v outside [200ms, 400ms]", d)
		}
	}
}

func TestRetry_MaxDelayCapsBackoff(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 10, BaseDelay: time.Second, MaxDelay: 3 * time.Second}

	if got := backoffDelay(5, cfg); got != 3*time.Second {
		t.Errorf("expected capped delay 3s, got %v", got)
	}
}

func TestRetry_OnRetryObservesEveryFailedAttempt(t *testing.T) {
	var observed []int
	cfg := RetryConfig{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			observed = append(observed, attempt)
		},
	}

	_, _ = Retry(context.Background(), cfg, func() (string, error) {
		return "", errors.New("fail")
	})

	// 3 attempts fail, but only the 2 that lead to a retry sleep fire the hook.
	if len(observed) != 2 {
		t.Fatalf("expected 2 retry observations, got %d", len(observed))
	}
	if observed[0] != 1 || observed[1] != 2 {
		t.Errorf("unexpected attempt numbers: %v", observed)
	}
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 10, BaseDelay: 100 * time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	callCount := 0
	_, err := Retry(ctx, cfg, func() (string, error) {
		callCount++
		return "", errors.New("fail")
	})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
	if callCount > 2 {
		t.Errorf("expected cancellation to stop retries, got %d calls", callCount)
	}
}

func TestRetryFunc(t *testing.T) {
	callCount := 0
	err := RetryFunc(context.Background(), RetryConfig{MaxRetries: 1, BaseDelay: time.Millisecond}, func() error {
		callCount++
		if callCount == 1 {
			return errors.New("first fails")
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if callCount != 2 {
		t.Errorf("expected 2 calls, got %d", callCount)
	}
}
