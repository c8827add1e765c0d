package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelEmitter maps pipeline events onto OpenTelemetry metric instruments.
type OTelEmitter struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	cacheEvents     metric.Int64Counter
	breakerChanges  metric.Int64Counter
	retryAttempts   metric.Int64Counter
	limitRejections metric.Int64Counter
}

// NewOTelEmitter creates the metric instruments on the given meter.
func NewOTelEmitter(meter metric.Meter) (*OTelEmitter, error) {
	requestTotal, err := meter.Int64Counter("gate.request.total",
		metric.WithDescription("Total logical requests by dependency, endpoint, and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gate.request.total counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("gate.request.duration",
		metric.WithDescription("Duration of logical requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gate.request.duration histogram: %w", err)
	}

	cacheEvents, err := meter.Int64Counter("gate.cache.events",
		metric.WithDescription("Cache transitions by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gate.cache.events counter: %w", err)
	}

	breakerChanges, err := meter.Int64Counter("gate.breaker.transitions",
		metric.WithDescription("Circuit breaker state transitions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gate.breaker.transitions counter: %w", err)
	}

	retryAttempts, err := meter.Int64Counter("gate.retry.attempts",
		metric.WithDescription("Retry attempts by dependency"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gate.retry.attempts counter: %w", err)
	}

	limitRejections, err := meter.Int64Counter("gate.ratelimit.rejections",
		metric.WithDescription("Rate limit rejections by resource key"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gate.ratelimit.rejections counter: %w", err)
	}

	return &OTelEmitter{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		cacheEvents:     cacheEvents,
		breakerChanges:  breakerChanges,
		retryAttempts:   retryAttempts,
		limitRejections: limitRejections,
	}, nil
}

// Emit implements Emitter.
func (o *OTelEmitter) Emit(ev Event) {
	ctx := context.Background()

	switch ev.Kind {
	case EventCacheHit, EventCacheMiss, EventCacheEvict, EventCacheExpire:
		o.cacheEvents.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", string(ev.Kind)),
			attribute.String("dependency", ev.Dependency),
		))
	case EventBreakerTransition:
		o.breakerChanges.Add(ctx, 1, metric.WithAttributes(
			attribute.String("dependency", ev.Dependency),
			attribute.String("from", ev.From),
			attribute.String("to", ev.To),
		))
	case EventRetryAttempt:
		o.retryAttempts.Add(ctx, 1, metric.WithAttributes(
			attribute.String("dependency", ev.Dependency),
		))
	case EventRateLimitRejected:
		o.limitRejections.Add(ctx, 1, metric.WithAttributes(
			attribute.String("resource", ev.Resource),
		))
	case EventRequestOutcome:
		attrs := metric.WithAttributes(
			attribute.String("dependency", ev.Dependency),
			attribute.String("endpoint", ev.Endpoint),
			attribute.String("outcome", ev.Outcome),
		)
		o.requestTotal.Add(ctx, 1, attrs)
		o.requestDuration.Record(ctx, ev.Duration.Seconds(), metric.WithAttributes(
			attribute.String("dependency", ev.Dependency),
			attribute.String("endpoint", ev.Endpoint),
		))
	}
}
