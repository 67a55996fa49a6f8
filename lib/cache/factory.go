package cache

import (
	"context"
	"fmt"

	rolodex "rolodex/lib"
)

// New builds the cache selected by configuration.
func New(ctx context.Context, l rolodex.Logger, c rolodex.Config) (Cache, error) {
	switch c.CacheDriver() {
	case "memory", "":
		return NewMemoryCache(l, c.CacheTTL()), nil
	case "redis":
		return NewRedisCache(ctx, l, c.RedisURL(), c.CacheTTL())
	default:
		return nil, fmt.Errorf("unknown cache driver %q", c.CacheDriver())
	}
}
