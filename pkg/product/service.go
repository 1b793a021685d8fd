package product

import (
	"context"
	"time"

	"github.com/harborline/productcache/pkg/cache"
	"github.com/harborline/productcache/pkg/codec"
	"github.com/harborline/productcache/pkg/logging"
	"github.com/harborline/productcache/pkg/metrics"
)

// Store is the record store the service reads through and writes to. It is
// the single source of truth; both methods report real failures, unlike the
// fail-open cache. Get returns errors.NotFound for an unknown id.
type Store interface {
	Get(ctx context.Context, id int64) (*Product, error)
	Put(ctx context.Context, p *Product) error
}

// CacheKey returns the cache key for a product identifier, e.g. "product:42".
// The format is part of the service's observable contract: operators inspect
// and expire these keys directly in Redis.
func CacheKey(id int64) string {
	return cache.Key("product", FormatID(id))
}

// CacheAsideService serves product reads through a volatile cache and keeps
// the cache consistent with the record store by invalidating after writes.
//
// The store is the single source of truth. Every cache interaction is best
// effort: a cache outage degrades reads to store latency and leaves writes
// untouched, it never changes results. Reads repopulate the cache with a
// fresh TTL; writes go to the store synchronously and hand the stale cache
// entry to a detached invalidator.
type CacheAsideService struct {
	store  Store
	cache  cache.Client
	codec  codec.Codec[Product]
	inv    *Invalidator
	ttl    time.Duration
	logger *logging.Logger
}

// NewCacheAsideService wires a cache-aside service over the given store and
// cache. Cached entries live for ttl before expiring on their own; the
// invalidator removes them earlier after updates.
func NewCacheAsideService(st Store, cc cache.Client, cd codec.Codec[Product], inv *Invalidator, ttl time.Duration, logger *logging.Logger) *CacheAsideService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &CacheAsideService{
		store:  st,
		cache:  cc,
		codec:  cd,
		inv:    inv,
		ttl:    ttl,
		logger: logger.WithComponent("product"),
	}
}

// Fetch returns the product with the given id, serving from the cache when
// possible and falling back to the record store on a miss. A store hit
// repopulates the cache with a fresh TTL.
//
// A cached payload that fails to decode is treated as a miss and will be
// overwritten by the repopulation; it is never surfaced to the caller.
// Returns errors.NotFound when the id exists in neither cache nor store.
func (s *CacheAsideService) Fetch(ctx context.Context, id int64) (*Product, error) {
	key := CacheKey(id)

	if data, ok := s.cache.Get(ctx, key); ok {
		p, err := s.codec.Decode(data)
		if err == nil {
			metrics.RecordCacheHit()
			s.logger.Debug().
				Int64(logging.ProductID, id).
				Str(logging.CacheKey, key).
				Msg("cache hit")
			return &p, nil
		}
		// Corrupt or foreign payload under our key. Treat as a miss;
		// the store read below overwrites it.
		s.logger.Warn().
			Err(err).
			Str(logging.CacheKey, key).
			Msg("discarding undecodable cache entry")
	}

	metrics.RecordCacheMiss()
	metrics.RecordStoreRead()

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := s.codec.Encode(*p); err == nil {
		s.cache.Set(ctx, key, data, s.ttl)
	} else {
		s.logger.Error().
			Err(err).
			Int64(logging.ProductID, id).
			Msg("failed to encode product for cache")
	}

	s.logger.Debug().
		Int64(logging.ProductID, id).
		Str(logging.CacheKey, key).
		Msg("cache miss, served from store")
	return p, nil
}

// Update applies a partial update to the product with the given id. The
// merged record is written to the store synchronously; only after the write
// succeeds is the cache entry handed to the detached invalidator, so the
// caller's response never waits on the cache.
//
// An empty update is a valid no-op write: it rewrites the current record
// and still invalidates, which keeps the operation idempotent.
// Returns errors.NotFound when no record exists for id.
func (s *CacheAsideService) Update(ctx context.Context, id int64, patch Update) (*Product, error) {
	metrics.RecordStoreRead()
	cur, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := patch.Apply(cur)

	if err := s.store.Put(ctx, next); err != nil {
		return nil, err
	}
	metrics.RecordStoreWrite()

	s.inv.Enqueue(id)

	s.logger.Info().
		Int64(logging.ProductID, id).
		Msg("product updated, cache invalidation queued")
	return next, nil
}
