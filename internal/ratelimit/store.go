package ratelimit

import (
	"context"
	"time"
)

// Store counts requests per key.
type Store interface {
	// Record registers one request under key and returns how many requests
	// the key has seen within the last window, including this one.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}
