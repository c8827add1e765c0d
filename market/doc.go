// Package market exposes typed views over the aggregated provider data.
// Every method is a thin wrapper around one gate.Request call: the gate
// supplies caching, rate limiting, breaker protection, and retries, and
// this package only decodes the raw payload into its DTO. Cache TTLs
// differ per endpoint because the underlying data moves at different
// speeds (orderbooks churn, collection metadata barely changes).
package market
