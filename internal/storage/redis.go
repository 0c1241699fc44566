package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the blob store with a redis instance, one redis key
// per logical key under a shared prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore parses redisURL, verifies connectivity and returns the store.
func NewRedisStore(ctx context.Context, redisURL, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	if prefix == "" {
		prefix = "jobhunter"
	}

	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	if len(keys) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	redisKeys := make([]string, len(keys))
	for i, key := range keys {
		redisKeys[i] = s.key(key)
	}

	raw, err := s.client.MGet(ctx, redisKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	values := make(map[string]json.RawMessage, len(keys))
	for i, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		values[keys[i]] = json.RawMessage(str)
	}
	return values, nil
}

func (s *RedisStore) Set(ctx context.Context, values map[string]json.RawMessage) error {
	pipe := s.client.Pipeline()
	for key, raw := range values {
		pipe.Set(ctx, s.key(key), string(raw), 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(key string) string {
	return s.prefix + ":" + key
}
