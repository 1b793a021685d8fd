package cache

import (
	"strings"
)

// Key builds a consistent cache key by joining a prefix and parts with colons.
// The product entry key format "product:<id>" is part of the externally
// observable contract and must not change.
//
// Example:
//
//	key := cache.Key("product", "42") // "product:42"
//
// Empty parts are filtered out to prevent double colons.
func Key(prefix string, parts ...string) string {
	filtered := make([]string, 0, len(parts)+1)

	if prefix != "" {
		filtered = append(filtered, prefix)
	}

	for _, part := range parts {
		if part != "" {
			filtered = append(filtered, part)
		}
	}

	return strings.Join(filtered, ":")
}
