package tenant

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "tenant:validation:"

// RedisCache is a ValidationCache backed by Redis, for deployments where
// several processes should share one staleness window. Redis errors degrade
// to cache misses; the cache is never a source of truth.
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisCache creates a Redis-backed validation cache. A nil logger
// silences error reporting.
func NewRedisCache(client *redis.Client, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RedisCache{client: client, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, hostname string) (Validation, bool) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+Normalize(hostname)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "tenant validation cache read failed", slog.Any("error", err))
		}
		return Validation{}, false
	}

	var v Validation
	if err := json.Unmarshal(raw, &v); err != nil {
		return Validation{}, false
	}
	return v, true
}

func (c *RedisCache) Set(ctx context.Context, hostname string, v Validation, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultValidationTTL
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+Normalize(hostname), raw, ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "tenant validation cache write failed", slog.Any("error", err))
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, hostnames ...string) {
	if len(hostnames) == 0 {
		return
	}
	keys := make([]string, len(hostnames))
	for i, h := range hostnames {
		keys[i] = redisKeyPrefix + Normalize(h)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "tenant validation cache invalidation failed", slog.Any("error", err))
	}
}
