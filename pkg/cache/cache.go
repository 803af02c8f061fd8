// Package cache stores exported artifacts keyed by a hash of their inputs.
//
// An export is deterministic for a given record, page, render engine and
// size window, so the encoded bytes can be reused. Keys are built by a
// [Keyer] from hashes only: the declaration record itself is never written
// to a cache.
//
// Backends:
//   - [FileCache]: JSON entries under a local directory (CLI default when
//     caching is enabled)
//   - [RedisCache]: a shared Redis instance
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// A missing or expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
