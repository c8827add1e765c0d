// Package resilience provides patterns for calling unreliable upstream
// market-data APIs without cascading their failures into the caller.
//
// This package includes:
//   - CircuitBreaker: per-dependency three-state gate that fails fast
//     while a dependency is unhealthy
//   - RateLimiter: per-resource-key fixed-window admission control
//   - Retry: bounded exponential backoff with optional jitter
//   - Bulkhead: caps concurrent in-flight calls per dependency
//
// The gate package composes these into the full request pipeline; each
// primitive also works standalone:
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("reservoir"))
//	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{Limit: 60, Window: time.Minute})
//
//	err := cb.Execute(func() error {
//	    return rl.Execute("reservoir", func() error {
//	        return callUpstream()
//	    })
//	})
package resilience
