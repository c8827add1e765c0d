// Package gate composes the resilience pipeline every upstream call goes
// through: circuit-breaker admission, cache lookup, rate-limit admission,
// retry-wrapped upstream call, cache store, and breaker feedback — in that
// order.
//
// The ordering is deliberate: a fresh cache hit returns before rate-limit
// consumption (cached answers are free), and breaker admission precedes
// both so an open circuit never touches the cache path.
//
//	gw, err := gate.New(gate.Config{Namespace: "mkt"})
//	err = gw.Register(gate.DependencyConfig{Name: "reservoir"}, upstreamCall)
//	payload, err := gw.Request(ctx, "reservoir", "/collections", params, nil)
package gate
