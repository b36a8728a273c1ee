package kv

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const defaultCleanupInterval = 10 * time.Minute

// MemoryStore implements Store on top of an in-process go-cache instance.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a store whose entries default to the given TTL
// when callers pass a zero duration to Put.
func NewMemoryStore(defaultTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(defaultTTL, defaultCleanupInterval),
	}
}

// Get retrieves a value if present and unexpired.
func (s *MemoryStore) Get(key string) (string, bool) {
	v, found := s.cache.Get(key)
	if !found {
		return "", false
	}
	str, ok := v.(string)
	if !ok {
		return "", false
	}
	return str, true
}

// Put stores a value with the given TTL. A zero TTL uses the store default.
func (s *MemoryStore) Put(key, value string, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	s.cache.Set(key, value, ttl)
}

// Has reports whether an unexpired value exists for the key.
func (s *MemoryStore) Has(key string) bool {
	_, found := s.cache.Get(key)
	return found
}

// Forget removes a key.
func (s *MemoryStore) Forget(key string) {
	s.cache.Delete(key)
}
