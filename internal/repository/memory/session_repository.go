package memory

import (
	"sync"
	"time"

	"ai-workflow-be/internal/repository/contract"
	"ai-workflow-be/pkg/apperror"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionRepository is a go-cache backed SessionStore.
type SessionRepository[V any] struct {
	name  string
	cache *cache.Cache
	clone func(V) V
	// serialises read-modify-write so an Update never interleaves with another
	mu sync.Mutex
}

var _ contract.SessionStore[int] = (*SessionRepository[int])(nil)

// NewSessionRepository creates a store. A ttl of zero keeps sessions until
// they are deleted; otherwise idle sessions expire and the janitor purges them
// every 10 minutes. clone deep-copies values handed across the store boundary
// and may be nil for value types without shared references.
func NewSessionRepository[V any](name string, ttl time.Duration, clone func(V) V) *SessionRepository[V] {
	expiration := cache.NoExpiration
	if ttl > 0 {
		expiration = ttl
	}
	if clone == nil {
		clone = func(v V) V { return v }
	}
	return &SessionRepository[V]{
		name:  name,
		cache: cache.New(expiration, 10*time.Minute),
		clone: clone,
	}
}

func (r *SessionRepository[V]) Create(build func(id string) V) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	for {
		if _, found := r.cache.Get(id); !found {
			break
		}
		id = uuid.NewString()
	}
	r.cache.Set(id, r.clone(build(id)), cache.DefaultExpiration)
	return id
}

func (r *SessionRepository[V]) Get(id string) (V, error) {
	if x, found := r.cache.Get(id); found {
		return r.clone(x.(V)), nil
	}
	var zero V
	return zero, r.notFound(id)
}

func (r *SessionRepository[V]) Update(id string, mutate func(v *V) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(id)
	if !found {
		return r.notFound(id)
	}
	next := r.clone(x.(V))
	if err := mutate(&next); err != nil {
		return err
	}
	r.cache.Set(id, next, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository[V]) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.cache.Get(id); !found {
		return r.notFound(id)
	}
	r.cache.Delete(id)
	return nil
}

// Count returns live sessions. Items skips expired entries the janitor has
// not purged yet.
func (r *SessionRepository[V]) Count() int {
	return len(r.cache.Items())
}

func (r *SessionRepository[V]) notFound(id string) error {
	return apperror.NotFound("%s session %s not found", r.name, id)
}
