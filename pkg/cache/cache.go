// Package cache stores rendered artifacts between runs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [MemoryCache]: process-local map (server default, tests)
//   - [RedisCache]: shared cache for several server instances
//   - [MongoCache]: document store with a TTL index
//   - [NullCache]: caching disabled
//
// All backends implement [Cache]. A miss is reported as (nil, false, nil);
// errors are reserved for backend failures.
//
// # Keys
//
// A [Keyer] derives keys from the SHA-256 of the input tree and every
// option that changes the output, so two renders share a key only when
// they would produce identical bytes.
//
//	key := keyer.ArtifactKey(cache.Hash(treeJSON), cache.ArtifactKeyOpts{Format: "svg", Width: 800})
package cache

import (
	"context"
	"time"
)

// Cache stores byte blobs by key with an optional TTL.
type Cache interface {
	// Get returns the entry for key. hit is false on a miss.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// TTLs per entry kind.
const (
	TTLArtifact = 7 * 24 * time.Hour
)
