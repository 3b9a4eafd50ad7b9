package cache

import (
	"context"
	"time"
)

// NewNullCache returns a cache that drops every write and misses every read.
// It backs --no-cache and keeps callers free of nil checks.
func NewNullCache() Cache {
	return nullCache{}
}

type nullCache struct{}

func (nullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (nullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (nullCache) Delete(ctx context.Context, key string) error { return nil }

func (nullCache) Close() error { return nil }

var _ Cache = nullCache{}
