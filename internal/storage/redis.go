package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/user/kgharvest/internal/domain"
)

const promptsKey = "kgharvest:prompts"

// RedisPromptRegistry keeps named prompts in a Redis hash so the extraction
// workers can read the installed prompt.
type RedisPromptRegistry struct {
	client *redis.Client
}

func NewRedisPromptRegistry(addr string) *RedisPromptRegistry {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisPromptRegistry{client: rdb}
}

func (s *RedisPromptRegistry) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisPromptRegistry) GetTemplate(ctx context.Context, name string) (string, error) {
	text, err := s.client.HGet(ctx, promptsKey, name).Result()
	if errors.Is(err, redis.Nil) {
		return "", &domain.PromptNotFoundError{Name: name}
	}
	return text, err
}

func (s *RedisPromptRegistry) SetPrompt(ctx context.Context, name, text string) error {
	return s.client.HSet(ctx, promptsKey, name, text).Err()
}

func (s *RedisPromptRegistry) Close() error {
	return s.client.Close()
}
