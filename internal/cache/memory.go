package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a process-local cache for single-instance deployments and tests.
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates an in-process cache that purges expired entries
// every cleanupInterval.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{items: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := m.items.Get(key)
	if !ok {
		return nil, ErrMiss
	}

	data, ok := value.([]byte)
	if !ok {
		return nil, ErrMiss
	}

	return data, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	m.items.Set(key, value, ttl)

	return nil
}

var _ Cache = (*MemoryCache)(nil)
