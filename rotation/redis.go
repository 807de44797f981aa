package rotation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed UsedTokenStore for multi-node deployments.
// SET NX gives the atomic check-and-insert across nodes.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisStore creates a UsedTokenStore on the given Redis client.
func NewRedisStore(client redis.UniversalClient, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "used"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) fullKey(key string) string {
	return s.keyPrefix + ":" + key
}

// MarkUsed implements UsedTokenStore.
func (s *RedisStore) MarkUsed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.fullKey(key), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("used-token store mark: %w", err)
	}
	return ok, nil
}

// IsUsed implements UsedTokenStore.
func (s *RedisStore) IsUsed(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.fullKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("used-token store check: %w", err)
	}
	return n > 0, nil
}
