// Package cache provides the short-lived snapshot cache used by the invoice
// listing. Writes invalidate synchronously; reads within the TTL are served
// from the snapshot.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a byte-snapshot cache with manual invalidation.
type Cache interface {
	// Get returns the cached value for key, if present and not expired.
	Get(key string) ([]byte, bool)

	// Put stores value under key for the cache's TTL.
	Put(key string, value []byte)

	// Invalidate drops the entry for key.
	Invalidate(key string)
}

// Memory is an in-process TTL cache.
type Memory struct {
	store *gocache.Cache
}

// NewMemory creates an in-process cache with the given TTL. A TTL of zero
// disables expiry-based caching but keeps explicit invalidation working.
func NewMemory(ttl time.Duration) *Memory {
	cleanup := 2 * ttl
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &Memory{store: gocache.New(ttl, cleanup)}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	value, ok := m.store.Get(key)
	if !ok {
		return nil, false
	}
	data, ok := value.([]byte)
	return data, ok
}

func (m *Memory) Put(key string, value []byte) {
	m.store.SetDefault(key, value)
}

func (m *Memory) Invalidate(key string) {
	m.store.Delete(key)
}
