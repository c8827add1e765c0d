// Package admin exposes a small HTTP surface for operating the gateway:
// health, breaker states, cache statistics, limiter buckets, and explicit
// cache invalidation. It is meant to be bound to localhost or an internal
// network, never to the public edge.
package admin
