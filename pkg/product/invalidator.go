package product

import (
	"context"
	"sync"
	"time"

	"github.com/harborline/productcache/pkg/cache"
	"github.com/harborline/productcache/pkg/config"
	"github.com/harborline/productcache/pkg/errors"
	"github.com/harborline/productcache/pkg/logging"
	"github.com/harborline/productcache/pkg/metrics"
	"github.com/harborline/productcache/pkg/retry"
)

// Invalidator removes stale cache entries after product updates. It runs
// detached from the request path: Enqueue returns immediately and the delete
// happens on a worker goroutine under a background context, so a caller
// cancelling its request cannot cancel the invalidation it triggered.
//
// Deletes that the backend does not confirm are retried with exponential
// backoff and jitter. After the attempt budget is spent the key is abandoned
// and the entry is left to expire via its TTL, which bounds staleness.
type Invalidator struct {
	cache    cache.Client
	retryCfg retry.Config
	drain    time.Duration
	logger   *logging.Logger

	queue chan int64

	mu     sync.Mutex
	closed bool

	workers sync.WaitGroup
	jobs    sync.WaitGroup

	closeOnce sync.Once
}

// NewInvalidator starts cfg.Workers goroutines draining a buffered queue of
// cfg.QueueSize pending invalidations. Zero config fields fall back to the
// documented defaults.
func NewInvalidator(cc cache.Client, cfg config.InvalidatorConfig, logger *logging.Logger) *Invalidator {
	if logger == nil {
		logger = logging.Nop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = 5 * time.Second
	}

	inv := &Invalidator{
		cache: cc,
		retryCfg: retry.Config{
			MaxAttempts:  cfg.MaxAttempts,
			InitialDelay: cfg.InitialDelay,
			MaxDelay:     cfg.MaxDelay,
			Policy:       retry.PolicyTemporary,
		},
		drain:  cfg.DrainTimeout,
		logger: logger.WithComponent("invalidator"),
		queue:  make(chan int64, cfg.QueueSize),
	}

	inv.workers.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go inv.worker()
	}

	return inv
}

// Enqueue schedules the cache entry for the given product id for deletion
// and returns immediately. Work is never dropped: when the queue is full the
// delete runs in its own goroutine, and after Close it runs inline on a
// fresh goroutine so late writers still get their entries invalidated.
func (inv *Invalidator) Enqueue(id int64) {
	inv.mu.Lock()
	if inv.closed {
		inv.mu.Unlock()
		go inv.invalidate(id)
		return
	}

	inv.jobs.Add(1)
	select {
	case inv.queue <- id:
		inv.mu.Unlock()
		metrics.SetInvalidationQueueDepth(len(inv.queue))
	default:
		inv.mu.Unlock()
		go func() {
			defer inv.jobs.Done()
			inv.invalidate(id)
		}()
	}
}

// Flush blocks until every invalidation enqueued so far has finished.
func (inv *Invalidator) Flush() {
	inv.jobs.Wait()
}

// Close stops accepting queued work and waits up to the configured drain
// timeout for outstanding invalidations to finish. Safe to call more than
// once.
func (inv *Invalidator) Close() {
	inv.closeOnce.Do(func() {
		inv.mu.Lock()
		inv.closed = true
		close(inv.queue)
		inv.mu.Unlock()

		done := make(chan struct{})
		go func() {
			inv.jobs.Wait()
			inv.workers.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(inv.drain):
			inv.logger.Warn().
				Dur("timeout", inv.drain).
				Msg("invalidation drain timed out, remaining entries expire via TTL")
		}
	})
}

func (inv *Invalidator) worker() {
	defer inv.workers.Done()
	for id := range inv.queue {
		inv.invalidate(id)
		inv.jobs.Done()
		metrics.SetInvalidationQueueDepth(len(inv.queue))
	}
}

// invalidate deletes the cache entry for id, retrying unconfirmed deletes.
// It deliberately uses a background context: invalidation outlives the
// request that caused it.
func (inv *Invalidator) invalidate(id int64) {
	ctx := context.Background()
	key := CacheKey(id)

	err := retry.Do(ctx, inv.retryCfg, func() error {
		if !inv.cache.Delete(ctx, key) {
			return errors.NewTemporary("cache delete unconfirmed", nil)
		}
		return nil
	})
	if err != nil {
		metrics.RecordInvalidation(metrics.InvalidationAbandoned)
		inv.logger.Warn().
			Err(err).
			Str(logging.CacheKey, key).
			Msg("cache invalidation abandoned, entry expires via TTL")
		return
	}

	metrics.RecordInvalidation(metrics.InvalidationOK)
	inv.logger.Debug().
		Str(logging.CacheKey, key).
		Msg("cache entry invalidated")
}
