package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	rolodex "rolodex/lib"
)

// redisCache implements the Cache interface using Redis
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the Redis instance at redisURL.
func NewRedisCache(ctx context.Context, l rolodex.Logger, redisURL string, ttl time.Duration) (Cache, error) {
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrCacheConnection, err)
	}

	l.Info("Redis cache initialized", zap.String("addr", opt.Addr), zap.Duration("ttl", ttl))
	return NewRedisCacheFromClient(client, ttl), nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration) Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisCache{
		client: client,
		ttl:    ttl,
	}
}

// Set stores a value in Redis with expiration
func (r *redisCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = r.ttl
	}
	return r.client.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value from Redis
func (r *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Delete removes a key from Redis
func (r *redisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Exists checks if a key exists in Redis
func (r *redisCache) Exists(ctx context.Context, key string) bool {
	count, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false
	}
	return count > 0
}

// Clear removes all keys from the selected Redis database
func (r *redisCache) Clear(ctx context.Context) error {
	return r.client.FlushDB(ctx).Err()
}

// Close releases the client's connections
func (r *redisCache) Close() error {
	return r.client.Close()
}
