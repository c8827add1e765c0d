package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrRateLimited is returned by Execute when admission is denied.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimiterConfig configures a fixed-window rate limiter.
type RateLimiterConfig struct {
	// Name identifies this rate limiter for metrics/logging.
	Name string
	// Limit is the number of requests admitted per window per resource key.
	Limit int
	// Window is the admission window length.
	Window time.Duration
	// OnReject is called synchronously when a consume attempt is denied.
	OnReject func(name, resourceKey string)
}

// DefaultRateLimiterConfig returns sensible defaults.
func DefaultRateLimiterConfig(name string) RateLimiterConfig {
	return RateLimiterConfig{
		Name:   name,
		Limit:  60,
		Window: time.Minute,
	}
}

// window is one resource key's admission counter.
type window struct {
	start time.Time
	count int
}

// RateLimiter admits at most Limit requests per Window per resource key.
// Buckets are created lazily on first use and live for the process
// lifetime. A consume attempt past the limit is rejected, never queued;
// callers that want backpressure compose this with the retry policy.
type RateLimiter struct {
	config RateLimiterConfig

	mu      sync.Mutex
	buckets map[string]*window
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Limit <= 0 {
		config.Limit = 60
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}

	return &RateLimiter{
		config:  config,
		buckets: make(map[string]*window),
	}
}

// Consume attempts to take one admission slot for the resource key.
func (rl *RateLimiter) Consume(resourceKey string) bool {
	return rl.ConsumeN(resourceKey, 1)
}

// ConsumeN attempts to take n admission slots for the resource key.
// The whole cost is admitted or rejected; partial consumption never happens.
func (rl *RateLimiter) ConsumeN(resourceKey string, n int) bool {
	rl.mu.Lock()

	now := time.Now()
	b, ok := rl.buckets[resourceKey]
	if !ok {
		b = &window{start: now}
		rl.buckets[resourceKey] = b
	}

	// Window boundary: reset the counter.
	if now.Sub(b.start) >= rl.config.Window {
		b.start = now
		b.count = 0
	}

	if b.count+n > rl.config.Limit {
		rl.mu.Unlock()
		if rl.config.OnReject != nil {
			rl.config.OnReject(rl.config.Name, resourceKey)
		}
		return false
	}

	b.count += n
	rl.mu.Unlock()
	return true
}

// Execute runs fn if the resource key has admission slots left.
func (rl *RateLimiter) Execute(resourceKey string, fn func() error) error {
	if !rl.Consume(resourceKey) {
		return ErrRateLimited
	}
	return fn()
}

// Remaining returns the number of admission slots left in the resource
// key's current window. An unseen key has the full limit available.
func (rl *RateLimiter) Remaining(resourceKey string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[resourceKey]
	if !ok || time.Since(b.start) >= rl.config.Window {
		return rl.config.Limit
	}
	return rl.config.Limit - b.count
}

// BucketState is a point-in-time snapshot of one resource key's window.
type BucketState struct {
	ResourceKey string    `json:"resource_key"`
	WindowStart time.Time `json:"window_start"`
	Count       int       `json:"count"`
	Limit       int       `json:"limit"`
}

// Snapshot returns the state of every bucket the limiter has seen.
func (rl *RateLimiter) Snapshot() []BucketState {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	states := make([]BucketState, 0, len(rl.buckets))
	for key, b := range rl.buckets {
		states = append(states, BucketState{
			ResourceKey: key,
			WindowStart: b.start,
			Count:       b.count,
			Limit:       rl.config.Limit,
		})
	}
	return states
}

// Limit returns the configured per-window admission limit.
func (rl *RateLimiter) Limit() int {
	return rl.config.Limit
}

// Window returns the configured window length.
func (rl *RateLimiter) Window() time.Duration {
	return rl.config.Window
}
