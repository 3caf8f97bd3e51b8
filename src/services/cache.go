package services

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// goCacheStore adapts a go-cache instance to the KVStore interface so the
// services depend on the abstraction rather than on the library.
type goCacheStore struct {
	c          *cache.Cache
	expiration time.Duration
}

// NewGoCacheStore wraps an existing go-cache instance. Entries are stored
// with the given expiration; pass cache.NoExpiration for memo tables that
// are only invalidated explicitly.
func NewGoCacheStore(c *cache.Cache, expiration time.Duration) KVStore {
	return &goCacheStore{c: c, expiration: expiration}
}

func (s *goCacheStore) Get(key string) (any, bool) {
	return s.c.Get(key)
}

func (s *goCacheStore) Set(key string, value any) {
	s.c.Set(key, value, s.expiration)
}

func (s *goCacheStore) Remove(key string) {
	s.c.Delete(key)
}

func (s *goCacheStore) Clear() {
	s.c.Flush()
}
