// Package rendercache stores rendered boards so repeated requests skip rasterisation.
package rendercache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("render cache miss")

const DefaultTTL = 10 * time.Minute

// Cache is keyed by a digest of the render request.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Close() error
}

// Config selects the backend: Redis when RedisURL is set, memory otherwise.
type Config struct {
	RedisURL string
	TTL      time.Duration
}

func New(ctx context.Context, cfg Config) (Cache, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return NewMemory(cfg.TTL), nil
	}
	opts, err := RedisOptions(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedis(ctx, opts, cfg.TTL)
}

// RedisOptions parses a redis:// or rediss:// URL; rediss enables TLS.
func RedisOptions(raw string) (*redis.Options, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	return opts, nil
}
