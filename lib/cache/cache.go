package cache

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is the expiry applied when Set is called without one.
const DefaultTTL = 5 * time.Minute

// Common cache errors
var (
	ErrCacheKeyNotFound = errors.New("cache key not found")
	ErrCacheConnection  = errors.New("cache connection error")
)

// Cache defines the interface for caching implementations
type Cache interface {
	// Set stores value under key. A non-positive expiration uses the cache's default TTL.
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) bool

	// Clear drops every entry.
	Clear(ctx context.Context) error
	Close() error
}
