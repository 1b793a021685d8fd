// Package product contains the product domain model and the cache-aside
// service that serves reads through a volatile cache and invalidates it
// after writes.
package product

import (
	"strconv"
)

// Product is a catalog record. The record store owns it; the cache holds
// serialized snapshots, never references, so cache and store cannot alias
// the same memory.
type Product struct {
	ID    int64   `json:"id" msgpack:"id"`
	Name  string  `json:"name" msgpack:"name"`
	Price float64 `json:"price" msgpack:"price"`
}

// Clone returns an independent copy of the product.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// Update is a partial update of a product. Nil fields mean "leave unchanged".
type Update struct {
	Name  *string  `json:"name" msgpack:"name"`
	Price *float64 `json:"price" msgpack:"price"`
}

// IsEmpty reports whether the update carries no fields.
// An empty update still triggers cache invalidation on apply.
func (u Update) IsEmpty() bool {
	return u.Name == nil && u.Price == nil
}

// Apply merges the provided fields onto a copy of cur and returns the result.
// The merge is all-or-nothing: the returned record carries every provided
// field, and cur is never mutated.
func (u Update) Apply(cur *Product) *Product {
	next := cur.Clone()
	if u.Name != nil {
		next.Name = *u.Name
	}
	if u.Price != nil {
		next.Price = *u.Price
	}
	return next
}

// FormatID renders a product identifier for cache keys and error messages.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
