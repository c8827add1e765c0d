package errors

import (
	"errors"
	"fmt"
)

// Error is the classified error surfaced by the request pipeline.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Dependency is the upstream dependency name.
	Dependency string
	// Endpoint is the logical endpoint that was requested.
	Endpoint string
	// Attempts is the number of upstream attempts made (0 when the
	// upstream was never contacted).
	Attempts int
	// StatusCode is the upstream HTTP status (0 for transport-level errors).
	StatusCode int
	// Message describes the failure.
	Message string
	// Retryable indicates whether the caller may usefully retry later.
	Retryable bool
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s %s (HTTP %d): %s", e.Kind, e.Dependency, e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s %s: %s", e.Kind, e.Dependency, e.Endpoint, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// WithAttempts records the attempt count and returns the receiver.
func (e *Error) WithAttempts(n int) *Error {
	e.Attempts = n
	return e
}

// CircuitOpen creates an error for a request rejected by an open breaker.
func CircuitOpen(dependency, endpoint string) *Error {
	return &Error{
		Kind:       KindCircuitOpen,
		Dependency: dependency,
		Endpoint:   endpoint,
		Message:    "circuit breaker is open",
		Retryable:  false,
	}
}

// RateLimited creates an error for a request denied admission.
func RateLimited(dependency, endpoint string) *Error {
	return &Error{
		Kind:       KindRateLimited,
		Dependency: dependency,
		Endpoint:   endpoint,
		Message:    "rate limit exceeded",
		Retryable:  true,
	}
}

// Upstream creates an error for a failed upstream call.
func Upstream(dependency, endpoint string, statusCode int, cause error) *Error {
	msg := fmt.Sprintf("HTTP %d", statusCode)
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Kind:       KindUpstream,
		Dependency: dependency,
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    msg,
		Retryable:  true,
		Cause:      cause,
	}
}

// NonRetryableUpstream creates an upstream error that should not be
// retried (client-side request problems like 404 or 422).
func NonRetryableUpstream(dependency, endpoint string, statusCode int) *Error {
	return &Error{
		Kind:       KindUpstream,
		Dependency: dependency,
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Retryable:  false,
	}
}

// CriticalUpstream creates an error for an authentication or permission
// failure. Never retried; the breaker opens immediately on this outcome.
func CriticalUpstream(dependency, endpoint string, statusCode int) *Error {
	return &Error{
		Kind:       KindCriticalUpstream,
		Dependency: dependency,
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Retryable:  false,
	}
}

// Timeout creates an error for an upstream call that exceeded its deadline.
func Timeout(dependency, endpoint string, cause error) *Error {
	msg := "deadline exceeded"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Kind:       KindTimeout,
		Dependency: dependency,
		Endpoint:   endpoint,
		Message:    msg,
		Retryable:  true,
		Cause:      cause,
	}
}

// IsCircuitOpen checks whether err is a circuit-open rejection.
func IsCircuitOpen(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindCircuitOpen
}

// IsRateLimited checks whether err is a rate-limit rejection.
func IsRateLimited(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindRateLimited
}

// IsTimeout checks whether err is a timeout.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTimeout
}

// IsCritical checks whether err is a critical upstream failure.
func IsCritical(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindCriticalUpstream
}

// IsRetryable reports whether the retry loop may attempt err again.
// Unclassified errors are treated as retryable transport failures.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return true
}
