package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSlotCache holds serialized slot listings in Redis. Entries are keyed
// by the pricing epoch upstream, so invalidation is a key change rather than
// an explicit purge; the short TTL only bounds memory.
type RedisSlotCache struct {
	Client *redis.Client
}

func NewRedisSlotCache(client *redis.Client) *RedisSlotCache {
	return &RedisSlotCache{Client: client}
}

func (c *RedisSlotCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.Client == nil {
		return nil, false, errors.New("slot cache: client is nil")
	}

	val, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("slot cache get %q: %w", key, err)
	}
	return val, true, nil
}

func (c *RedisSlotCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if c.Client == nil {
		return errors.New("slot cache: client is nil")
	}
	if err := c.Client.Set(ctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("slot cache set %q: %w", key, err)
	}
	return nil
}
