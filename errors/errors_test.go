package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_MessageIncludesContext(t *testing.T) {
	err := Upstream("reservoir", "/collections", 502, nil)

	msg := err.Error()
	for _, want := range []string{"UPSTREAM_ERROR", "reservoir", "/collections", "502"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Upstream("reservoir", "/tokens", 0, cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestError_WithAttempts(t *testing.T) {
	err := Upstream("dep", "/x", 500, nil).WithAttempts(4)
	if err.Attempts != 4 {
		t.Errorf("expected 4 attempts, got %d", err.Attempts)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status    int
		kind      Kind
		retryable bool
		nilErr    bool
	}{
		{200, "", false, true},
		{204, "", false, true},
		{401, KindCriticalUpstream, false, false},
		{403, KindCriticalUpstream, false, false},
		{404, KindUpstream, false, false},
		{408, KindUpstream, true, false},
		{422, KindUpstream, false, false},
		{429, KindUpstream, true, false},
		{500, KindUpstream, true, false},
		{503, KindUpstream, true, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := ClassifyStatus("dep", "/endpoint", tt.status)
			if tt.nilErr {
				if err != nil {
					t.Fatalf("expected nil error for %d, got %v", tt.status, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error for %d", tt.status)
			}
			if err.Kind != tt.kind {
				t.Errorf("status %d: expected kind %s, got %s", tt.status, tt.kind, err.Kind)
			}
			if err.Retryable != tt.retryable {
				t.Errorf("status %d: expected retryable=%v, got %v", tt.status, tt.retryable, err.Retryable)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	if !IsCircuitOpen(CircuitOpen("dep", "/x")) {
		t.Error("IsCircuitOpen failed")
	}
	if !IsRateLimited(RateLimited("dep", "/x")) {
		t.Error("IsRateLimited failed")
	}
	if !IsTimeout(Timeout("dep", "/x", nil)) {
		t.Error("IsTimeout failed")
	}
	if !IsCritical(CriticalUpstream("dep", "/x", 401)) {
		t.Error("IsCritical failed")
	}
	if IsCircuitOpen(stderrors.New("plain")) {
		t.Error("IsCircuitOpen matched a plain error")
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(CriticalUpstream("dep", "/x", 401)) {
		t.Error("critical errors must not be retryable")
	}
	if IsRetryable(CircuitOpen("dep", "/x")) {
		t.Error("circuit-open must not be retryable")
	}
	if !IsRetryable(Timeout("dep", "/x", nil)) {
		t.Error("timeouts must be retryable")
	}
	if !IsRetryable(stderrors.New("transport blip")) {
		t.Error("unclassified errors must default to retryable")
	}
}

func TestIsRetryableKind(t *testing.T) {
	if IsRetryableKind(KindCriticalUpstream) {
		t.Error("KindCriticalUpstream must not be retryable")
	}
	if !IsRetryableKind(KindRateLimited) {
		t.Error("KindRateLimited must be retryable after window reset")
	}
}
