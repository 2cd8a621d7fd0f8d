package store

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/serroba/foodgram-go/internal/ratelimit"
)

// RateLimitMemoryStore is an in-memory sliding window implementation of
// ratelimit.Store. Keys idle for longer than their window are evicted.
type RateLimitMemoryStore struct {
	mu      sync.Mutex
	windows *gocache.Cache
}

func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		windows: gocache.New(gocache.NoExpiration, time.Minute),
	}
}

func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)

	var hits []time.Time
	if cached, ok := s.windows.Get(key); ok {
		hits, _ = cached.([]time.Time)
	}

	kept := hits[:0]

	for _, ts := range hits {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	kept = append(kept, now)
	s.windows.Set(key, kept, window)

	return int64(len(kept)), nil
}

var _ ratelimit.Store = (*RateLimitMemoryStore)(nil)
