package product

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/harborline/productcache/pkg/cache"
	"github.com/harborline/productcache/pkg/config"
	"github.com/harborline/productcache/pkg/logging"
)

// flakyCache is a cache.Client whose Delete fails a configurable number of
// times per key before succeeding.
type flakyCache struct {
	mu        sync.Mutex
	failures  int
	attempts  map[string]int
	deleted   map[string]bool
	permanent bool // never succeed
}

func newFlakyCache(failures int) *flakyCache {
	return &flakyCache{
		failures: failures,
		attempts: make(map[string]int),
		deleted:  make(map[string]bool),
	}
}

func (f *flakyCache) Healthy(ctx context.Context) bool { return true }

func (f *flakyCache) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }

func (f *flakyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {}

func (f *flakyCache) Delete(ctx context.Context, key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[key]++
	if f.permanent || f.attempts[key] <= f.failures {
		return false
	}
	f.deleted[key] = true
	return true
}

func (f *flakyCache) Check(ctx context.Context) error { return nil }

func (f *flakyCache) Close() error { return nil }

func (f *flakyCache) attemptsFor(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[key]
}

func (f *flakyCache) wasDeleted(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleted[key]
}

func fastInvalidatorConfig() config.InvalidatorConfig {
	return config.InvalidatorConfig{
		Workers:      1,
		QueueSize:    8,
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		DrainTimeout: time.Second,
	}
}

func TestInvalidatorDeletesEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.CacheConfig{
		Host:        mr.Host(),
		Port:        mr.Server().Addr().Port,
		DialTimeout: 5 * time.Second,
		OpTimeout:   time.Second,
	}
	cc := cache.New(context.Background(), cfg, logging.Nop())
	t.Cleanup(func() { cc.Close() })

	if err := mr.Set("product:7", "payload"); err != nil {
		t.Fatalf("redis.Set() error = %v", err)
	}

	inv := NewInvalidator(cc, fastInvalidatorConfig(), logging.Nop())
	t.Cleanup(inv.Close)

	inv.Enqueue(7)
	inv.Flush()

	if mr.Exists("product:7") {
		t.Error("cache entry still present after invalidation")
	}
}

func TestInvalidatorRetriesUnconfirmedDelete(t *testing.T) {
	fc := newFlakyCache(2) // fail twice, succeed on the third attempt

	inv := NewInvalidator(fc, fastInvalidatorConfig(), logging.Nop())
	t.Cleanup(inv.Close)

	inv.Enqueue(1)
	inv.Flush()

	if got := fc.attemptsFor("product:1"); got != 3 {
		t.Errorf("delete attempts = %d, want 3", got)
	}
	if !fc.wasDeleted("product:1") {
		t.Error("delete never succeeded")
	}
}

func TestInvalidatorAbandonsAfterRetryBudget(t *testing.T) {
	fc := newFlakyCache(0)
	fc.permanent = true

	inv := NewInvalidator(fc, fastInvalidatorConfig(), logging.Nop())
	t.Cleanup(inv.Close)

	inv.Enqueue(1)
	inv.Flush()

	if got := fc.attemptsFor("product:1"); got != 3 {
		t.Errorf("delete attempts = %d, want exactly the budget of 3", got)
	}
	if fc.wasDeleted("product:1") {
		t.Error("delete reported success for a permanently failing backend")
	}
}

func TestInvalidatorQueueOverflowDoesNotDropWork(t *testing.T) {
	fc := newFlakyCache(0)

	cfg := fastInvalidatorConfig()
	cfg.QueueSize = 1
	inv := NewInvalidator(fc, cfg, logging.Nop())
	t.Cleanup(inv.Close)

	// Flood well past the queue capacity.
	for i := int64(1); i <= 50; i++ {
		inv.Enqueue(i)
	}
	inv.Flush()

	for i := int64(1); i <= 50; i++ {
		if !fc.wasDeleted(CacheKey(i)) {
			t.Errorf("invalidation for id %d was dropped", i)
		}
	}
}

func TestInvalidatorCloseDrainsQueue(t *testing.T) {
	fc := newFlakyCache(0)

	inv := NewInvalidator(fc, fastInvalidatorConfig(), logging.Nop())

	for i := int64(1); i <= 5; i++ {
		inv.Enqueue(i)
	}
	inv.Close()

	for i := int64(1); i <= 5; i++ {
		if !fc.wasDeleted(CacheKey(i)) {
			t.Errorf("invalidation for id %d lost during shutdown", i)
		}
	}
}

func TestInvalidatorCloseIdempotent(t *testing.T) {
	fc := newFlakyCache(0)

	inv := NewInvalidator(fc, fastInvalidatorConfig(), logging.Nop())
	inv.Close()
	inv.Close()
}

func TestInvalidatorEnqueueAfterClose(t *testing.T) {
	fc := newFlakyCache(0)

	inv := NewInvalidator(fc, fastInvalidatorConfig(), logging.Nop())
	inv.Close()

	// Late enqueues still run; give the detached goroutine a moment.
	inv.Enqueue(9)

	deadline := time.Now().Add(time.Second)
	for !fc.wasDeleted(CacheKey(9)) {
		if time.Now().After(deadline) {
			t.Fatal("invalidation after Close never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestInvalidatorCallerCancellationDoesNotCancelDelete(t *testing.T) {
	fc := newFlakyCache(0)

	inv := NewInvalidator(fc, fastInvalidatorConfig(), logging.Nop())
	t.Cleanup(inv.Close)

	// Enqueue deliberately takes no context: the delete runs under a
	// background context, so a cancelled request cannot take the
	// invalidation down with it. Simulate the caller being long gone.
	inv.Enqueue(4)
	inv.Flush()

	if !fc.wasDeleted(CacheKey(4)) {
		t.Error("invalidation did not survive caller cancellation")
	}
}
