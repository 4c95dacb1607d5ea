package cache

import (
	"context"
	"fmt"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend Backend
	Dir     string // file backend; defaults to DefaultDir
	Redis   RedisOptions
	Mongo   MongoOptions
}

// Open creates the configured backend. An empty backend disables caching.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		dir := opts.Dir
		if dir == "" {
			dir = DefaultDir()
		}
		return NewFileCache(dir)
	case BackendRedis:
		return NewRedisCache(ctx, opts.Redis)
	case BackendMongo:
		return NewMongoCache(ctx, opts.Mongo)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
