package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheCache stores entries in memcached.
type MemcacheCache struct {
	client *memcache.Client
	prefix string
}

// NewMemcacheCache creates a memcached-backed cache.
func NewMemcacheCache(client *memcache.Client, prefix string) *MemcacheCache {
	return &MemcacheCache{client: client, prefix: prefix}
}

func (m *MemcacheCache) Get(_ context.Context, key string) ([]byte, error) {
	item, err := m.client.Get(m.prefix + key)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return nil, ErrMiss
		}

		return nil, err
	}

	return item.Value, nil
}

// Set stores value; memcached expirations have one second granularity.
func (m *MemcacheCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return m.client.Set(&memcache.Item{
		Key:        m.prefix + key,
		Value:      value,
		Expiration: int32(ttl / time.Second),
	})
}

// Shutdown closes idle connections.
func (m *MemcacheCache) Shutdown() error {
	return m.client.Close()
}

var _ Cache = (*MemcacheCache)(nil)
