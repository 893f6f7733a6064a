package cache

import (
	"context"
	"time"
)

// NullCache misses every read and discards every write. It backs the
// "none" backend and the --no-cache flag, and stands in when a configured
// backend fails to open so rendering proceeds uncached.
type NullCache struct{}

// NewNullCache creates a cache that never stores anything.
func NewNullCache() Cache {
	return NullCache{}
}

// Get reports a miss for every key.
func (NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the entry.
func (NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete reports success for every key.
func (NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close reports success.
func (NullCache) Close() error {
	return nil
}

var _ Cache = NullCache{}
