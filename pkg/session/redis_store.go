package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix     = "session:"
	redisUserKeyPrefix = "session:user:"
)

// RedisStore persists sessions in Redis with TTLs matching session expiry,
// so expired sessions evict themselves. A per-user set tracks tokens for
// DeleteByUserID.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrInvalidSession
	}

	data, err := json.Marshal(session)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisKeyPrefix+session.Token, data, ttl)
	userKey := redisUserKeyPrefix + session.UserID.String()
	pipe.SAdd(ctx, userKey, session.Token)
	pipe.Expire(ctx, userKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	if session.IsExpired() {
		_ = s.Delete(ctx, token)
		return nil, ErrSessionExpired
	}
	return &session, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+token).Err(); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis evicts sessions via key TTLs.
func (s *RedisStore) DeleteExpired(ctx context.Context) error { return nil }

func (s *RedisStore) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	userKey := redisUserKeyPrefix + userID.String()
	tokens, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, redisKeyPrefix+token)
	}
	keys = append(keys, userKey)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}
