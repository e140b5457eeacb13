// Package cache memoizes generation results with a time-to-live.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// DefaultTTL applies when Set is called with a zero ttl.
const DefaultTTL = time.Hour

// Entry is a live cache record.
type Entry[V any] struct {
	Key       string    `json:"key"`
	Value     V         `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ResultCache is a keyed TTL cache. Expired entries read as a miss.
type ResultCache[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context) ([]Entry[V], error)
}

// Key derives a deterministic key from the JSON encoding of parts. Map keys
// are sorted by encoding/json so logically equal inputs hash the same.
func Key(parts ...any) (string, error) {
	b, err := json.Marshal(parts)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
