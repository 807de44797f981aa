package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed Store for multi-node deployments.
// Entry lifetime is delegated to Redis key TTLs, so expired revocations
// disappear without any sweeping on our side.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisStore creates a Store on the given Redis client.
// All keys are prefixed with keyPrefix followed by a colon separator.
func NewRedisStore(client redis.UniversalClient, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "revoked"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) fullKey(key string) string {
	return s.keyPrefix + ":" + key
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.fullKey(key), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revocation store put: %w", err)
	}
	return nil
}

// Has implements Store.
func (s *RedisStore) Has(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.fullKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation store check: %w", err)
	}
	return n > 0, nil
}
