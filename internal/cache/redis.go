package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 200

// RedisStore keeps cache entries in Redis.
type RedisStore struct {
	client *redis.Client
	stats  counters
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.stats.record(false)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// A corrupt entry counts as a miss; the caller refetches and overwrites it.
		s.stats.record(false)
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	s.stats.record(true)
	return true, nil
}

func (s *RedisStore) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// DeletePrefix scans for keys under prefix and removes them in one pipeline.
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	var (
		cursor uint64
		keys   []string
	)
	match := escapeGlob(prefix) + "*"
	for {
		batch, next, err := s.client.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", prefix, err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, k := range keys {
		pipe.Del(ctx, k)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete %s*: %w", prefix, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Stats() Stats { return s.stats.snapshot() }

// Nop is used when Redis is not configured. Every lookup misses.
type Nop struct {
	stats counters
}

func (n *Nop) GetJSON(context.Context, string, any) (bool, error) {
	n.stats.record(false)
	return false, nil
}

func (*Nop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (*Nop) Delete(context.Context, ...string) error                   { return nil }
func (*Nop) DeletePrefix(context.Context, string) error                { return nil }
func (*Nop) Ping(context.Context) error                                { return nil }
func (n *Nop) Stats() Stats                                            { return n.stats.snapshot() }
