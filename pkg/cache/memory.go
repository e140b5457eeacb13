package cache

import (
	"context"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps entries in process. go-cache checks expiry on every read
// and a janitor purges expired items every 10 minutes.
type MemoryCache[V any] struct {
	cache *gocache.Cache
}

var _ ResultCache[int] = (*MemoryCache[int])(nil)

func NewMemoryCache[V any](defaultTTL time.Duration) *MemoryCache[V] {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &MemoryCache[V]{cache: gocache.New(defaultTTL, 10*time.Minute)}
}

func (m *MemoryCache[V]) Get(_ context.Context, key string) (V, bool, error) {
	if x, found := m.cache.Get(key); found {
		return x.(V), true, nil
	}
	var zero V
	return zero, false, nil
}

func (m *MemoryCache[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.cache.Set(key, value, ttl)
	return nil
}

func (m *MemoryCache[V]) Delete(_ context.Context, key string) (bool, error) {
	if _, found := m.cache.Get(key); !found {
		return false, nil
	}
	m.cache.Delete(key)
	return true, nil
}

func (m *MemoryCache[V]) List(_ context.Context) ([]Entry[V], error) {
	now := time.Now().UnixNano()
	items := m.cache.Items()
	entries := make([]Entry[V], 0, len(items))
	for k, item := range items {
		if item.Expiration > 0 && now > item.Expiration {
			continue
		}
		entries = append(entries, Entry[V]{
			Key:       k,
			Value:     item.Object.(V),
			ExpiresAt: time.Unix(0, item.Expiration),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ExpiresAt.After(entries[j].ExpiresAt) })
	return entries, nil
}
