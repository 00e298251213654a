package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// RedisStore keeps counters in Redis so limits hold across instances.
// Each key is an INCR counter whose TTL marks the window boundary.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Incr(ctx context.Context, key string, ttl time.Duration) (int, time.Time, error) {
	rkey := keyPrefix + key

	count, err := s.client.Incr(ctx, rkey).Result()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, rkey, ttl).Err(); err != nil {
			return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
		}
		return 1, time.Now().Add(ttl), nil
	}

	remaining, err := s.client.TTL(ctx, rkey).Result()
	if err != nil || remaining < 0 {
		// A counter without a TTL would never reset; treat the window as
		// freshly started.
		_ = s.client.Expire(ctx, rkey, ttl).Err()
		remaining = ttl
	}
	return int(count), time.Now().Add(remaining), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
