// Package cache provides a best-effort key/value client over Redis with
// per-entry TTL. It isolates callers from backend outages: every operation
// is fail-open, so a backend error downgrades to "cache miss" or "no-op"
// and never surfaces as an error to the caller.
//
// This is the central design bet of the service: correctness never depends
// on the cache being up. The record store remains the single source of truth
// and a degraded cache only changes latency, never outcomes.
//
// Example usage:
//
//	cfg := config.CacheConfig{Host: "localhost", Port: 6379}
//	client := cache.New(ctx, cfg, logger)
//	defer client.Close()
//
//	key := cache.Key("product", "42")
//	if data, ok := client.Get(ctx, key); ok {
//	    // decode and use the cached snapshot
//	}
//	client.Set(ctx, key, encoded, 60*time.Second)
package cache

import (
	"context"
	"time"
)

// Client defines the fail-open contract for cache access.
//
// Get returns absent both when the key was never set (or expired) and when
// the backend is unreachable; callers cannot tell the two cases apart.
// Set and Delete are best effort; their failures are logged, not returned.
type Client interface {
	// Healthy performs a lightweight liveness probe against the backend.
	// It returns false on any communication failure and never panics.
	//
	// The read path does not call Healthy before Get: a pre-flight probe
	// would cost a round trip per read and still race the backend going
	// down, while Get already degrades to a miss on any failure. Healthy
	// exists for startup diagnostics and tests.
	Healthy(ctx context.Context) bool

	// Get returns the stored value for key. The second return is false when
	// the key is absent, expired, or the backend failed.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key with the given TTL. Failures are swallowed;
	// a failed cache write must not fail the surrounding operation.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Delete removes key. The return reports whether the backend confirmed
	// the removal, so detached invalidation can decide to retry; callers on
	// the request path ignore it.
	Delete(ctx context.Context, key string) bool

	// Check implements health checking for readiness probes. Unlike the
	// data-path operations it reports the underlying error.
	Check(ctx context.Context) error

	// Close releases the underlying connection. Idempotent.
	Close() error
}
