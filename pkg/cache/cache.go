// Package cache provides the key/value stores behind the session seed store.
//
// Only placement seeds are ever written here. Computed positions are never
// cached: they are recomputed from seeds and the live viewport on every pass.
//
// Backends:
//   - [NullCache]: stores nothing (seeding falls back to the policy)
//   - [MemoryCache]: in-process, used by tests and the HTTP server default
//   - [FileCache]: one JSON file per key, used by the CLI
//   - [RedisCache]: shared store for multi-instance servers
//   - [MongoCache]: document-store backend
package cache

import (
	"context"
	"time"
)

// TTLSeed is how long a seed stays valid: one session.
const TTLSeed = 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache forgets every seed it is given, so each pass falls back to the
// seed policy. The CLI uses it for --no-store and --no-session.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)          { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
