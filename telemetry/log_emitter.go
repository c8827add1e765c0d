package telemetry

import (
	"time"

	"github.com/meridianlab/marketgate/logger"
)

// LogEmitter writes every event to a structured logger. Request outcomes
// log at info, failures and rejections at warn, the rest at debug.
type LogEmitter struct {
	log *logger.Logger
}

// NewLogEmitter creates a LogEmitter. A nil log uses the registered
// "telemetry" component logger.
func NewLogEmitter(log *logger.Logger) *LogEmitter {
	if log == nil {
		return &LogEmitter{log: logger.Get("telemetry")}
	}
	return &LogEmitter{log: log.WithComponent("telemetry")}
}

// Emit implements Emitter.
func (l *LogEmitter) Emit(ev Event) {
	fields := eventFields(ev)

	switch ev.Kind {
	case EventRequestOutcome:
		if ev.Outcome == "success" {
			l.log.Info("request completed", fields)
		} else {
			l.log.Warn("request failed", fields)
		}
	case EventBreakerTransition, EventRateLimitRejected:
		l.log.Warn(string(ev.Kind), fields)
	default:
		l.log.Debug(string(ev.Kind), fields)
	}
}

// eventFields flattens an event into log fields, skipping zero values.
func eventFields(ev Event) map[string]interface{} {
	fields := map[string]interface{}{"event": string(ev.Kind)}
	if ev.Dependency != "" {
		fields["dependency"] = ev.Dependency
	}
	if ev.Endpoint != "" {
		fields["endpoint"] = ev.Endpoint
	}
	if ev.Key != "" {
		fields["key"] = ev.Key
	}
	if ev.Resource != "" {
		fields["resource"] = ev.Resource
	}
	if ev.From != "" {
		fields["from"] = ev.From
		fields["to"] = ev.To
	}
	if ev.Attempt > 0 {
		fields["attempt"] = ev.Attempt
	}
	if ev.Delay > 0 {
		fields["delay_ms"] = ev.Delay.Milliseconds()
	}
	if ev.Outcome != "" {
		fields["outcome"] = ev.Outcome
	}
	if ev.Duration > 0 {
		fields["duration_ms"] = ev.Duration.Milliseconds()
	}
	if ev.Err != "" {
		fields["error"] = ev.Err
	}
	if !ev.At.IsZero() {
		fields["at"] = ev.At.Format(time.RFC3339Nano)
	}
	return fields
}
