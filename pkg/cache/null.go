package cache

import (
	"context"
	"time"
)

// NullCache never stores anything. Open returns it for the "none" backend.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (c *NullCache) Delete(context.Context, string) error                     { return nil }
func (c *NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
