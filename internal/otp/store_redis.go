package otp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "otp:"

// RedisStore keeps live codes in Redis, letting key TTLs garbage-collect
// expired entries. The record still carries its own expiry so verification
// applies the strict now-before-expiry check regardless of TTL granularity.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(purpose Purpose, email string) string {
	return redisKeyPrefix + string(purpose) + ":" + email
}

func (s *RedisStore) Put(ctx context.Context, purpose Purpose, code Code, ttl time.Duration) error {
	payload, err := json.Marshal(code)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKey(purpose, code.Email), payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, purpose Purpose, email string) (*Code, error) {
	payload, err := s.client.Get(ctx, redisKey(purpose, email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoCode
	}
	if err != nil {
		return nil, err
	}
	var code Code
	if err := json.Unmarshal(payload, &code); err != nil {
		return nil, err
	}
	return &code, nil
}

func (s *RedisStore) Delete(ctx context.Context, purpose Purpose, email string) error {
	return s.client.Del(ctx, redisKey(purpose, email)).Err()
}
