// Package store provides the durable record store for products: the single
// source of truth the cache layer falls back to. Two backends are available,
// an in-process memory store (development and tests) and PostgreSQL.
//
// Store failures are never masked: there is no fallback below the store, so
// its errors propagate to the caller.
//
// Example usage:
//
//	st := store.NewMemory(store.SeedCatalog())
//	rec, err := st.Get(ctx, 1)
//	if errors.IsNotFound(err) {
//	    // no record for this id
//	}
package store

import (
	"context"

	"github.com/harborline/productcache/pkg/product"
)

// Store is the record store consumed by the cache-aside service.
// Get returns a NotFoundError when no record exists for id. Put replaces
// the record wholesale; at most one record per identifier exists at any time.
type Store interface {
	Get(ctx context.Context, id int64) (*product.Product, error)
	Put(ctx context.Context, p *product.Product) error

	// Check reports backend health for readiness probes.
	Check(ctx context.Context) error

	// Close releases backend resources. Idempotent.
	Close()
}
