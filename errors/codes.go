package errors

// Kind is a machine-readable classification of a pipeline failure.
type Kind string

const (
	// KindCircuitOpen indicates the dependency's circuit breaker is open
	// and the upstream was not contacted.
	KindCircuitOpen Kind = "CIRCUIT_OPEN"
	// KindRateLimited indicates admission was denied by the rate limiter.
	// Retryable after the window resets.
	KindRateLimited Kind = "RATE_LIMIT_EXCEEDED"
	// KindUpstream indicates a non-2xx response or transport failure.
	KindUpstream Kind = "UPSTREAM_ERROR"
	// KindCriticalUpstream indicates an upstream failure that must never
	// be retried (invalid credentials, forbidden).
	KindCriticalUpstream Kind = "CRITICAL_UPSTREAM_ERROR"
	// KindTimeout indicates the upstream call exceeded its deadline.
	// Accounted exactly like KindUpstream for retry and breaker purposes.
	KindTimeout Kind = "TIMEOUT"
)

// retryableKinds maps each kind to its default retryability.
var retryableKinds = map[Kind]bool{
	KindCircuitOpen:      false,
	KindRateLimited:      true,
	KindUpstream:         true,
	KindCriticalUpstream: false,
	KindTimeout:          true,
}

// IsRetryableKind reports whether errors of the given kind may be retried.
func IsRetryableKind(k Kind) bool {
	return retryableKinds[k]
}
