package telemetry

import "time"

// EventKind identifies a pipeline transition.
type EventKind string

const (
	// EventCacheHit is emitted when a fresh cache entry serves a request.
	EventCacheHit EventKind = "cache.hit"
	// EventCacheMiss is emitted when a key is absent or expired.
	EventCacheMiss EventKind = "cache.miss"
	// EventCacheEvict is emitted when capacity pressure removes an entry.
	EventCacheEvict EventKind = "cache.evict"
	// EventCacheExpire is emitted when a stale entry is removed on read.
	EventCacheExpire EventKind = "cache.expire"
	// EventBreakerTransition is emitted on every breaker state change.
	EventBreakerTransition EventKind = "breaker.transition"
	// EventRetryAttempt is emitted before each retry sleep.
	EventRetryAttempt EventKind = "retry.attempt"
	// EventRateLimitRejected is emitted when admission is denied.
	EventRateLimitRejected EventKind = "ratelimit.rejected"
	// EventRequestOutcome is emitted once per logical request.
	EventRequestOutcome EventKind = "request.outcome"
)

// Event is one pipeline transition record. Fields are populated per kind;
// unused fields stay zero.
type Event struct {
	// Kind identifies the transition.
	Kind EventKind
	// Dependency is the upstream dependency name.
	Dependency string
	// Endpoint is the logical endpoint, when the event belongs to a request.
	Endpoint string
	// Key is the cache key for cache events.
	Key string
	// Resource is the rate-limit resource key.
	Resource string
	// From and To carry breaker states for transition events.
	From string
	To   string
	// Attempt is the retry attempt number (1-indexed).
	Attempt int
	// Delay is the backoff delay chosen before the retry.
	Delay time.Duration
	// Outcome is the terminal result of a request: "success", or the
	// error kind for failures.
	Outcome string
	// Duration is the total request duration for outcome events.
	Duration time.Duration
	// Err is the failure message, when there is one.
	Err string
	// At is the emission time.
	At time.Time
}

// Emitter consumes pipeline transition events. Emit is called
// synchronously on the request path and must not block.
type Emitter interface {
	Emit(ev Event)
}

// NopEmitter discards every event.
type NopEmitter struct{}

// Emit implements Emitter.
func (NopEmitter) Emit(Event) {}

// MultiEmitter fans one event out to several emitters in order.
type MultiEmitter []Emitter

// Emit implements Emitter.
func (m MultiEmitter) Emit(ev Event) {
	for _, e := range m {
		e.Emit(ev)
	}
}
