// Package cache stores rendered diagram artifacts.
//
// Rendering through graphviz is the slow step of the pipeline, so artifacts
// are cached by the hash of the DOT source and the output format. The same
// DOT always renders to the same bytes, which makes the key stable across
// runs and across instances sharing a backend.
//
// Backends:
//   - [FileCache]: one JSON entry per key under a local directory (CLI)
//   - [RedisCache]: a shared Redis instance (HTTP server)
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the artifact lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss returns (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
