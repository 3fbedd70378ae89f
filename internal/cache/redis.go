package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cragmatch/cragmatch/internal/config"
)

// rosterKey holds the serialized users-list response. One roster, one key.
const rosterKey = "roster:users"

// rosterTTL bounds staleness for reads that race a write on another node.
const rosterTTL = 5 * time.Minute

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// GetRoster returns the cached roster payload, or "" on a miss.
func (c *RedisCache) GetRoster(ctx context.Context) (string, error) {
	val, err := c.Client.Get(ctx, rosterKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil // cache miss
	} else if err != nil {
		return "", err
	}
	return val, nil
}

// SetRoster stores the serialized roster payload with a fresh TTL.
func (c *RedisCache) SetRoster(ctx context.Context, payload string) error {
	return c.Client.Set(ctx, rosterKey, payload, rosterTTL).Err()
}

// InvalidateRoster drops the cached roster. Called on every record write
// so list reads never serve a stale like set.
func (c *RedisCache) InvalidateRoster(ctx context.Context) error {
	return c.Client.Del(ctx, rosterKey).Err()
}
