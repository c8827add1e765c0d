// Package telemetry defines the event records emitted at every pipeline
// transition (cache hit/miss/evict/expire, breaker transition, retry
// attempt, rate-limit rejection, request outcome) and the Emitter
// implementations that consume them.
//
// The pipeline's only obligation is to emit a well-defined Event per
// transition; emitters decide what to do with it. Shipping emitters:
// Nop (discard), Log (zerolog), OTel (OpenTelemetry metric instruments),
// and Multi (fan-out). InitMeter and InitTracer wire the OTLP exporters.
package telemetry
