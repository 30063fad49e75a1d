package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by a shared Redis instance, for deployments
// where every replica must draw from the same budget. The window is keyed by
// first hit: INCR starts the counter and the key expires windowDur later.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore creates a RedisStore using the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: "ratelimit:",
	}
}

// Increment implements Store.
func (s *RedisStore) Increment(key string, windowDur time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	redisKey := s.keyPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	// NX so only the first increment of a window arms the expiry.
	pipe.ExpireNX(ctx, redisKey, windowDur)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("increment rate limit key: %w", err)
	}

	return int(incr.Val()), nil
}
