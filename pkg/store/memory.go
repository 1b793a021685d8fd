package store

import (
	"context"
	"sync"
	"time"

	"github.com/harborline/productcache/pkg/errors"
	"github.com/harborline/productcache/pkg/product"
)

// MemoryStore is a mutex-guarded in-process record store. It stands in for a
// database: reads and writes hand out independent copies, and an optional
// artificial latency models the slow store the cache layer exists to shield.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int64]*product.Product
	latency time.Duration
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithLatency makes every store access sleep for d before answering,
// simulating a remote database round trip.
func WithLatency(d time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		s.latency = d
	}
}

// NewMemory creates a memory store holding copies of the given seed records.
func NewMemory(seed []*product.Product, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		records: make(map[int64]*product.Product, len(seed)),
	}
	for _, p := range seed {
		s.records[p.ID] = p.Clone()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedCatalog returns the default development catalog.
func SeedCatalog() []*product.Product {
	return []*product.Product{
		{ID: 1, Name: "Laptop", Price: 1000.00},
		{ID: 2, Name: "Smartphone", Price: 500.00},
		{ID: 3, Name: "Headphones", Price: 100.00},
	}
}

// Get returns a copy of the record for id, or a NotFoundError.
func (s *MemoryStore) Get(ctx context.Context, id int64) (*product.Product, error) {
	if err := s.simulateRoundTrip(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.records[id]
	if !ok {
		return nil, errors.NewNotFound("product", product.FormatID(id))
	}
	return p.Clone(), nil
}

// Put replaces the record for p.ID with a copy of p.
func (s *MemoryStore) Put(ctx context.Context, p *product.Product) error {
	if err := s.simulateRoundTrip(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[p.ID] = p.Clone()
	return nil
}

// Check always reports healthy; the memory store has no backend to lose.
func (s *MemoryStore) Check(ctx context.Context) error {
	return nil
}

// Close releases nothing; present to satisfy the Store interface.
func (s *MemoryStore) Close() {}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) simulateRoundTrip(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return errors.NewTemporary("store access cancelled", ctx.Err())
	}
}
