package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Service Redis 緩存服務
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

// NewService wraps an existing Redis client.
func NewService(client *redis.Client, ttl time.Duration) *Service {
	return &Service{
		client: client,
		ttl:    ttl,
	}
}

// Get 獲取緩存
func (s *Service) Get(ctx context.Context, namespace, key string) (string, error) {
	val, err := s.client.Get(ctx, s.generateKey(namespace, key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	return val, nil
}

// Set 設置緩存
func (s *Service) Set(ctx context.Context, namespace, key, value string) error {
	if err := s.client.Set(ctx, s.generateKey(namespace, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// generateKey 生成緩存鍵
func (s *Service) generateKey(namespace, key string) string {
	return fmt.Sprintf("recipes:cache:%s:%s", namespace, hashString(key))
}
