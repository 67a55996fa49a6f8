package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	rolodex "rolodex/lib"
)

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), rolodex.NewNopLogger(), "memcached://localhost", time.Minute)
	assert.Error(t, err)
}

func TestRedisCacheDefaultTTL(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	c := NewRedisCacheFromClient(client, 0).(*redisCache)
	assert.Equal(t, DefaultTTL, c.ttl)
}
