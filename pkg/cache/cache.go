// Package cache stores pipeline intermediates keyed by content hashes.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for multi-instance servers
//   - [MongoCache]: shared cache with a TTL index
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] derives keys from the hash of the input text plus the options
// that affect each stage, so a hit is always equivalent to recomputing:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.GraphKey(cache.Hash([]byte(text)), cache.GraphKeyOpts{Literals: "nodes"})
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with hit == false and a nil error. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default time-to-live per stage.
const (
	TTLGraph    = 7 * 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Backend names a cache implementation.
type Backend string

const (
	BackendNone  Backend = "none"
	BackendFile  Backend = "file"
	BackendRedis Backend = "redis"
	BackendMongo Backend = "mongo"
)
