package rendercache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dama:render:"

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(ctx context.Context, opts *redis.Options, ttl time.Duration) (Cache, error) {
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisFromClient(rdb, ttl), nil
}

// NewRedisFromClient wraps an existing client; Close closes it.
func NewRedisFromClient(rdb *redis.Client, ttl time.Duration) Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisCache{rdb: rdb, ttl: ttl}
}

func (c *redisCache) key(k string) string { return keyPrefix + strings.TrimSpace(k) }

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *redisCache) Set(ctx context.Context, key string, data []byte) error {
	return c.rdb.Set(ctx, c.key(key), data, c.ttl).Err()
}

func (c *redisCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
