package kv

import (
	"context"
	"errors"
	"time"

	"github.com/joramcars/dealership-web/pkg/redis"
)

type redisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	VisitorKey(visitorID, name string) string
}

// RedisStore keeps entries in redis with an optional idle TTL.
type RedisStore struct {
	client redisClient
	ttl    time.Duration
}

var _ Backend = (*RedisStore)(nil)

func NewRedisStore(client redisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key)
	if errors.Is(err, redis.ErrNil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, s.ttl)
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, key)
}

func (s *RedisStore) KeyFor(visitorID, name string) string {
	return s.client.VisitorKey(visitorID, name)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
