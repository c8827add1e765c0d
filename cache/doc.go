// Package cache provides a bounded, TTL-aware in-memory store for upstream
// responses, backed by an LRU list. Freshness is decided solely by the TTL
// recorded at write time: an expired entry is treated as absent and removed
// lazily on read.
//
// Keys are built with Key, a pure function of the namespace, endpoint, and
// the full parameter set, so identical requests collide on the same entry
// regardless of parameter insertion order.
package cache
