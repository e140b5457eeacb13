package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores JSON-encoded values under prefix with a native key TTL.
type RedisCache[V any] struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
}

var _ ResultCache[int] = (*RedisCache[int])(nil)

func NewRedisCache[V any](client *redis.Client, prefix string, defaultTTL time.Duration) *RedisCache[V] {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &RedisCache[V]{client: client, prefix: prefix, defaultTTL: defaultTTL}
}

func (r *RedisCache[V]) key(k string) string {
	return fmt.Sprintf("%s:%s", r.prefix, k)
}

func (r *RedisCache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, false, fmt.Errorf("decode cached value %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisCache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached value %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisCache[V]) Delete(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Del(ctx, r.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis del %s: %w", key, err)
	}
	return n > 0, nil
}

func (r *RedisCache[V]) List(ctx context.Context) ([]Entry[V], error) {
	var entries []Entry[V]
	iter := r.client.Scan(ctx, 0, r.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		full := iter.Val()
		key := full[len(r.prefix)+1:]
		v, found, err := r.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		ttl, err := r.client.TTL(ctx, full).Result()
		if err != nil {
			return nil, fmt.Errorf("redis ttl %s: %w", key, err)
		}
		entries = append(entries, Entry[V]{Key: key, Value: v, ExpiresAt: time.Now().Add(ttl)})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %s: %w", r.prefix, err)
	}
	return entries, nil
}
