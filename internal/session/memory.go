package session

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryStore keeps sessions in process memory with a TTL. Used when no
// database is configured; sessions do not survive restarts.
type memoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore returns an in-memory Store. Idle sessions expire after ttl.
func NewMemoryStore(ttl time.Duration, cleanupInterval time.Duration) Store {
	return &memoryStore{
		cache: gocache.New(ttl, cleanupInterval),
	}
}

func (m *memoryStore) Get(_ context.Context, key string) (*Session, error) {
	if v, found := m.cache.Get(key); found {
		s := v.(Session)
		return &s, nil
	}
	return nil, nil
}

func (m *memoryStore) Put(_ context.Context, s *Session) error {
	s.UpdatedAt = time.Now()
	m.cache.SetDefault(s.Key, *s)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}
