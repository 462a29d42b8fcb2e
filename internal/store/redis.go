package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps cache entries in a shared Redis instance, for deployments
// where several display kiosks share one cache. Entries are namespaced so a
// migration wipe does not disturb unrelated keys.
type RedisStore struct {
	client    *redis.Client
	namespace string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client, namespace string, logger *zap.Logger) *RedisStore {
	if namespace == "" {
		namespace = "companion:"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, namespace: namespace, timeout: 2 * time.Second, logger: logger}
}

func (s *RedisStore) Get(key string) (string, bool) {
	ctx, cancel := s.ctx()
	defer cancel()
	val, err := s.client.Get(ctx, s.namespace+key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return val, true
}

func (s *RedisStore) Set(key, value string) error {
	ctx, cancel := s.ctx()
	defer cancel()
	// No expiry: entries live until overwritten or wiped.
	return s.client.Set(ctx, s.namespace+key, value, 0).Err()
}

func (s *RedisStore) Remove(key string) error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.client.Del(ctx, s.namespace+key).Err()
}

func (s *RedisStore) Keys(prefix string) []string {
	ctx, cancel := s.ctx()
	defer cancel()
	var keys []string
	iter := s.client.Scan(ctx, 0, s.namespace+prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val()[len(s.namespace):])
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("redis scan failed", zap.String("prefix", prefix), zap.Error(err))
	}
	return keys
}

func (s *RedisStore) Clear() error {
	ctx, cancel := s.ctx()
	defer cancel()
	iter := s.client.Scan(ctx, 0, s.namespace+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *RedisStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}
