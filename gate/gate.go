package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/meridianlab/marketgate/cache"
	gateerr "github.com/meridianlab/marketgate/errors"
	"github.com/meridianlab/marketgate/logger"
	"github.com/meridianlab/marketgate/resilience"
	"github.com/meridianlab/marketgate/telemetry"
)

// CallFunc performs one upstream call. Implementations must honor ctx
// cancellation and return classified errors where they can.
type CallFunc func(ctx context.Context, endpoint string, params map[string]string) ([]byte, error)

// CacheOptions controls caching for a single request. A nil options
// value means caching is enabled with the dependency's default TTL.
type CacheOptions struct {
	// Enabled toggles the cache for this call.
	Enabled bool
	// TTL overrides the dependency's default TTL when positive.
	TTL time.Duration
}

// dependency bundles one upstream's resilience state.
type dependency struct {
	name     string
	call     CallFunc
	breaker  *resilience.CircuitBreaker
	limiter  *resilience.RateLimiter
	bulkhead *resilience.Bulkhead
	retry    RetryConfig
	cacheTTL time.Duration
}

// Gateway composes the resilience pipeline for a set of registered
// upstream dependencies. All collaborators are injected; the Gateway
// owns none of their lifecycles beyond construction.
type Gateway struct {
	config  Config
	cache   *cache.Store
	emitter telemetry.Emitter
	log     *logger.Logger
	tracer  trace.Tracer

	mu   sync.RWMutex
	deps map[string]*dependency
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithEmitter sets the telemetry emitter. Defaults to a no-op emitter.
func WithEmitter(e telemetry.Emitter) Option {
	return func(g *Gateway) { g.emitter = e }
}

// WithLogger sets the logger. Defaults to the registered "gate"
// component logger.
func WithLogger(l *logger.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

// New creates a Gateway. The configuration is validated once here;
// invalid combinations are rejected instead of defaulting later.
func New(config Config, opts ...Option) (*Gateway, error) {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	g := &Gateway{
		config:  config,
		emitter: telemetry.NopEmitter{},
		tracer:  telemetry.Tracer("github.com/meridianlab/marketgate/gate"),
		deps:    make(map[string]*dependency),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logger.Get("gate")
	} else {
		g.log = g.log.WithComponent("gate")
	}

	cacheCfg := config.Cache
	cacheCfg.OnEvict = func(name, key string) {
		g.emitter.Emit(telemetry.Event{Kind: telemetry.EventCacheEvict, Key: key, At: time.Now()})
	}
	cacheCfg.OnExpire = func(name, key string) {
		g.emitter.Emit(telemetry.Event{Kind: telemetry.EventCacheExpire, Key: key, At: time.Now()})
	}

	store, err := cache.New(cacheCfg)
	if err != nil {
		return nil, err
	}
	g.cache = store

	return g, nil
}

// Register adds an upstream dependency with its own breaker, limiter,
// retry policy, and optional bulkhead.
func (g *Gateway) Register(config DependencyConfig, call CallFunc) error {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return err
	}
	if call == nil {
		return fmt.Errorf("gate: dependency %q requires a call function", config.Name)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.deps[config.Name]; exists {
		return fmt.Errorf("gate: dependency %q already registered", config.Name)
	}

	dep := &dependency{
		name:     config.Name,
		call:     call,
		retry:    config.Retry,
		cacheTTL: config.CacheTTL,
	}

	dep.breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:             config.Name,
		FailureThreshold: config.Breaker.FailureThreshold,
		ResetTimeout:     config.Breaker.ResetTimeout,
		OnStateChange: func(name string, from, to resilience.State) {
			g.emitter.Emit(telemetry.Event{
				Kind:       telemetry.EventBreakerTransition,
				Dependency: name,
				From:       from.String(),
				To:         to.String(),
				At:         time.Now(),
			})
			g.log.Warn("circuit breaker state changed", logger.Fields(
				logger.FieldDependency, name,
				"from", from.String(),
				"to", to.String(),
			))
		},
	})

	dep.limiter = resilience.NewRateLimiter(resilience.RateLimiterConfig{
		Name:   config.Name,
		Limit:  config.RateLimit.Limit,
		Window: config.RateLimit.Window,
		OnReject: func(name, resourceKey string) {
			g.emitter.Emit(telemetry.Event{
				Kind:       telemetry.EventRateLimitRejected,
				Dependency: name,
				Resource:   resourceKey,
				At:         time.Now(),
			})
		},
	})

	if config.MaxConcurrent > 0 {
		dep.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          config.Name,
			MaxConcurrent: config.MaxConcurrent,
		})
	}

	g.deps[config.Name] = dep
	return nil
}

// Request runs one logical request through the pipeline:
// breaker gate → cache lookup → rate-limit admission → retrying upstream
// call → cache store → breaker feedback.
func (g *Gateway) Request(ctx context.Context, dependencyName, endpoint string, params map[string]string, copts *CacheOptions) ([]byte, error) {
	dep, err := g.dependency(dependencyName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	requestID := uuid.NewString()
	log := g.log.WithFields(map[string]interface{}{
		logger.FieldRequestID:  requestID,
		logger.FieldDependency: dep.name,
		logger.FieldEndpoint:   endpoint,
	})

	ctx, span := g.tracer.Start(ctx, "gate.request", trace.WithAttributes(
		attribute.String("dependency", dep.name),
		attribute.String("endpoint", endpoint),
		attribute.String("request_id", requestID),
	))
	defer span.End()

	// 1. Breaker admission. An open circuit skips cache and upstream.
	if !dep.breaker.Allow() {
		cerr := gateerr.CircuitOpen(dep.name, endpoint)
		log.Warn("request rejected by open circuit")
		g.outcome(dep.name, endpoint, string(gateerr.KindCircuitOpen), cerr.Error(), start)
		return nil, cerr
	}

	// 2. Cache lookup. A fresh hit never consumes a rate-limit token.
	cacheEnabled, ttl := g.cachePolicy(dep, copts)
	var key string
	if cacheEnabled {
		key = cache.Key(g.config.Namespace, dep.name+":"+endpoint, params)
		if value, ok := g.cache.Get(key); ok {
			if payload, ok := value.([]byte); ok {
				dep.breaker.Release()
				g.emitter.Emit(telemetry.Event{
					Kind:       telemetry.EventCacheHit,
					Dependency: dep.name,
					Endpoint:   endpoint,
					Key:        key,
					At:         time.Now(),
				})
				log.Debug("served from cache")
				g.outcome(dep.name, endpoint, "success", "", start)
				return payload, nil
			}
			// Foreign entry type under our key; drop it and refetch.
			g.cache.Delete(key)
		}
		g.emitter.Emit(telemetry.Event{
			Kind:       telemetry.EventCacheMiss,
			Dependency: dep.name,
			Endpoint:   endpoint,
			Key:        key,
			At:         time.Now(),
		})
	}

	// 3. Rate-limit admission. Rejected, not queued.
	if !dep.limiter.Consume(dep.name) {
		dep.breaker.Release()
		cerr := gateerr.RateLimited(dep.name, endpoint)
		log.Warn("request rejected by rate limiter")
		g.outcome(dep.name, endpoint, string(gateerr.KindRateLimited), cerr.Error(), start)
		return nil, cerr
	}

	// 4. Upstream call wrapped by the retry policy.
	attempts := 0
	retryCfg := resilience.RetryConfig{
		MaxRetries: dep.retry.MaxRetries,
		BaseDelay:  dep.retry.BaseDelay,
		MaxDelay:   dep.retry.MaxDelay,
		Jitter:     dep.retry.Jitter,
		RetryIf: func(err error) bool {
			// Per-attempt deadlines surface context.DeadlineExceeded in
			// the cause chain; only the caller's own context aborts the
			// loop early.
			if ctx.Err() != nil {
				return false
			}
			return gateerr.IsRetryable(err)
		},
		OnRetry: func(attempt int, err error, delay time.Duration) {
			g.emitter.Emit(telemetry.Event{
				Kind:       telemetry.EventRetryAttempt,
				Dependency: dep.name,
				Endpoint:   endpoint,
				Attempt:    attempt,
				Delay:      delay,
				Err:        err.Error(),
				At:         time.Now(),
			})
			log.Debug("retrying upstream call", logger.Fields(
				"attempt", attempt,
				"delay_ms", delay.Milliseconds(),
				logger.FieldError, err.Error(),
			))
		},
	}

	payload, err := resilience.Retry(ctx, retryCfg, func() ([]byte, error) {
		attempts++
		if dep.bulkhead != nil {
			return resilience.ExecuteWithResult(dep.bulkhead, ctx, func() ([]byte, error) {
				return dep.call(ctx, endpoint, params)
			})
		}
		return dep.call(ctx, endpoint, params)
	})

	// 5/6. Breaker feedback and cache store.
	if err != nil {
		cerr := g.classify(dep.name, endpoint, attempts, err)
		if cerr.Kind == gateerr.KindCriticalUpstream {
			dep.breaker.ForceOpen()
		} else {
			dep.breaker.ReportFailure()
		}
		log.Warn("upstream call failed", logger.Fields(
			"attempts", attempts,
			logger.FieldError, cerr.Error(),
		))
		span.RecordError(cerr)
		g.outcome(dep.name, endpoint, string(cerr.Kind), cerr.Error(), start)
		return nil, cerr
	}

	dep.breaker.ReportSuccess()
	if cacheEnabled {
		g.cache.Set(key, payload, ttl)
	}
	log.Debug("upstream call succeeded", logger.Fields("attempts", attempts))
	g.outcome(dep.name, endpoint, "success", "", start)
	return payload, nil
}

// Invalidate removes the cached entry for one (endpoint, params) pair.
func (g *Gateway) Invalidate(dependencyName, endpoint string, params map[string]string) bool {
	key := cache.Key(g.config.Namespace, dependencyName+":"+endpoint, params)
	return g.cache.Delete(key)
}

// InvalidateAll clears the whole cache and returns the number of
// entries removed.
func (g *Gateway) InvalidateAll() int {
	return g.cache.Purge()
}

// Dependencies returns the registered dependency names.
func (g *Gateway) Dependencies() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, 0, len(g.deps))
	for name := range g.deps {
		names = append(names, name)
	}
	return names
}

// BreakerStates returns the current breaker state per dependency.
func (g *Gateway) BreakerStates() map[string]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	states := make(map[string]string, len(g.deps))
	for name, dep := range g.deps {
		states[name] = dep.breaker.State().String()
	}
	return states
}

// CacheStats returns a snapshot of the cache counters.
func (g *Gateway) CacheStats() cache.Stats {
	return g.cache.Stats()
}

// LimiterSnapshot returns the rate-limit bucket state per dependency.
func (g *Gateway) LimiterSnapshot() map[string][]resilience.BucketState {
	g.mu.RLock()
	defer g.mu.RUnlock()

	snap := make(map[string][]resilience.BucketState, len(g.deps))
	for name, dep := range g.deps {
		snap[name] = dep.limiter.Snapshot()
	}
	return snap
}

// dependency resolves a registered dependency by name.
func (g *Gateway) dependency(name string) (*dependency, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	dep, ok := g.deps[name]
	if !ok {
		return nil, fmt.Errorf("gate: unknown dependency %q", name)
	}
	return dep, nil
}

// cachePolicy resolves the effective cache setting for one call.
func (g *Gateway) cachePolicy(dep *dependency, copts *CacheOptions) (bool, time.Duration) {
	ttl := dep.cacheTTL
	if copts == nil {
		return true, ttl
	}
	if copts.TTL > 0 {
		ttl = copts.TTL
	}
	return copts.Enabled, ttl
}

// classify converts a retry-loop error into the caller-visible taxonomy.
func (g *Gateway) classify(dependencyName, endpoint string, attempts int, err error) *gateerr.Error {
	var cerr *gateerr.Error
	if errors.As(err, &cerr) {
		return cerr.WithAttempts(attempts)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return gateerr.Timeout(dependencyName, endpoint, err).WithAttempts(attempts)
	}
	return gateerr.Upstream(dependencyName, endpoint, 0, err).WithAttempts(attempts)
}

// outcome emits the terminal request event.
func (g *Gateway) outcome(dependencyName, endpoint, outcome, errMsg string, start time.Time) {
	g.emitter.Emit(telemetry.Event{
		Kind:       telemetry.EventRequestOutcome,
		Dependency: dependencyName,
		Endpoint:   endpoint,
		Outcome:    outcome,
		Err:        errMsg,
		Duration:   time.Since(start),
		At:         time.Now(),
	})
}
