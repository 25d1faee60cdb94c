package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-grading-service/internal/utils"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	CacheOrExecute(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) error
}

type redisCache struct {
	client *redis.Client
	prefix string
	logger utils.Logger
}

// NewRedisCache returns a JSON cache over redis. A nil client yields a cache
// that always misses, so callers fall through to the database.
func NewRedisCache(client *redis.Client, prefix string, logger utils.Logger) CacheService {
	if client == nil {
		return noopCache{}
	}
	return &redisCache{
		client: client,
		prefix: prefix,
		logger: logger.With("component", "redis_cache", "prefix", prefix),
	}
}

func (r *redisCache) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value %s: %w", key, err)
	}
	return r.client.Set(ctx, r.key(key), data, ttl).Err()
}

func (r *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal cache value %s: %w", key, err)
	}
	return nil
}

func (r *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	return r.client.Del(ctx, full...).Err()
}

// CacheOrExecute reads key into dest, or runs fn, stores its result and
// copies it into dest. Redis failures are logged and never fail the call.
func (r *redisCache) CacheOrExecute(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) error {
	err := r.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	value, err := fn()
	if err != nil {
		return err
	}
	if err := r.Set(ctx, key, value, ttl); err != nil {
		r.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return copyInto(value, dest)
}

type noopCache struct{}

func (noopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (noopCache) Get(context.Context, string, interface{}) error                { return ErrCacheMiss }
func (noopCache) Delete(context.Context, ...string) error                       { return nil }

func (noopCache) CacheOrExecute(_ context.Context, _ string, dest interface{}, _ time.Duration, fn func() (interface{}, error)) error {
	value, err := fn()
	if err != nil {
		return err
	}
	return copyInto(value, dest)
}

func copyInto(value, dest interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
