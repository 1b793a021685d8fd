package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Invalidation result label values.
const (
	InvalidationOK        = "ok"
	InvalidationAbandoned = "abandoned"
)

var (
	// Standard HTTP metrics
	httpRequestDuration *Histogram
	httpRequestCount    *Counter
	httpRequestSize     *Histogram
	httpResponseSize    *Histogram

	// Standard cache-aside metrics
	cacheHits              *Counter
	cacheMisses            *Counter
	storeReads             *Counter
	storeWrites            *Counter
	invalidations          *Counter
	invalidationQueueDepth *Gauge

	// Ensure standard metrics are initialized only once
	standardMetricsOnce sync.Once
)

// InitStandardMetrics initializes the standard HTTP and cache-aside metrics.
// This function is called automatically by the middleware, but can be called
// explicitly to ensure metrics are registered before use.
// It is safe to call multiple times - subsequent calls are no-ops.
func InitStandardMetrics(namespace string) error {
	var initErr error

	standardMetricsOnce.Do(func() {
		// Initialize HTTP metrics
		httpRequestDuration, initErr = NewHistogram(Opts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Labels:    []string{"method", "path", "status_code"},
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		})
		if initErr != nil {
			return
		}

		httpRequestCount, initErr = NewCounter(Opts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
			Labels:    []string{"method", "path", "status_code"},
		})
		if initErr != nil {
			return
		}

		httpRequestSize, initErr = NewHistogram(Opts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_size_bytes",
			Help:      "HTTP request size in bytes",
			Labels:    []string{"method", "path"},
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8), // 100B to ~100MB
		})
		if initErr != nil {
			return
		}

		httpResponseSize, initErr = NewHistogram(Opts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "HTTP response size in bytes",
			Labels:    []string{"method", "path", "status_code"},
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8), // 100B to ~100MB
		})
		if initErr != nil {
			return
		}

		// Initialize cache-aside metrics
		cacheHits, initErr = NewCounter(Opts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of reads served from the cache",
		})
		if initErr != nil {
			return
		}

		cacheMisses, initErr = NewCounter(Opts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of reads that fell through to the record store",
		})
		if initErr != nil {
			return
		}

		storeReads, initErr = NewCounter(Opts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "reads_total",
			Help:      "Total number of record store reads",
		})
		if initErr != nil {
			return
		}

		storeWrites, initErr = NewCounter(Opts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "writes_total",
			Help:      "Total number of record store writes",
		})
		if initErr != nil {
			return
		}

		invalidations, initErr = NewCounter(Opts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Total number of detached cache invalidations by result",
			Labels:    []string{"result"},
		})
		if initErr != nil {
			return
		}

		invalidationQueueDepth, initErr = NewGauge(Opts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "invalidation_queue_depth",
			Help:      "Number of invalidation jobs waiting in the queue",
		})
		if initErr != nil {
			return
		}
	})

	return initErr
}

// RecordCacheHit increments the cache hit counter.
// Safe to call before metrics are initialized (no-op).
func RecordCacheHit() {
	if cacheHits != nil {
		cacheHits.Inc()
	}
}

// RecordCacheMiss increments the cache miss counter.
// Safe to call before metrics are initialized (no-op).
func RecordCacheMiss() {
	if cacheMisses != nil {
		cacheMisses.Inc()
	}
}

// RecordStoreRead increments the record store read counter.
// Safe to call before metrics are initialized (no-op).
func RecordStoreRead() {
	if storeReads != nil {
		storeReads.Inc()
	}
}

// RecordStoreWrite increments the record store write counter.
// Safe to call before metrics are initialized (no-op).
func RecordStoreWrite() {
	if storeWrites != nil {
		storeWrites.Inc()
	}
}

// RecordInvalidation increments the invalidation counter for the given
// result ("ok" or "abandoned").
// Safe to call before metrics are initialized (no-op).
func RecordInvalidation(result string) {
	if invalidations != nil {
		invalidations.Inc(result)
	}
}

// SetInvalidationQueueDepth records the current invalidation queue depth.
// Safe to call before metrics are initialized (no-op).
func SetInvalidationQueueDepth(depth int) {
	if invalidationQueueDepth != nil {
		invalidationQueueDepth.Set(float64(depth))
	}
}
