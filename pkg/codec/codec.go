// Package codec provides value serialization for cache entries.
// The cache holds encoded snapshots of records, never references, so the
// store and the cache can never alias the same memory.
package codec

import (
	"fmt"
)

// Codec encodes and decodes values to []byte for cache storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)

	// Name identifies the codec in configuration and logs.
	Name() string
}

// New returns the codec registered under the given name.
// Supported names: "json" (default wire format) and "msgpack".
func New[V any](name string) (Codec[V], error) {
	switch name {
	case "json", "":
		return JSON[V]{}, nil
	case "msgpack":
		return Msgpack[V]{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}
