// ABOUTME: In-memory cache with TTL-based expiration and load deduplication
// ABOUTME: Concurrent loads of one key share a single call via singleflight

package cache

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	data      V
	expiresAt time.Time // zero means never
}

// Cache holds values of one type keyed by string. A ttl <= 0 keeps entries
// until they are cleared.
type Cache[V any] struct {
	store   sync.Map
	ttl     time.Duration
	sfGroup singleflight.Group
}

func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{ttl: ttl}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	val, ok := c.store.Load(key)
	if !ok {
		slog.Debug("Cache miss", "key", key)
		return zero, false
	}

	e := val.(entry[V])
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.store.Delete(key)
		slog.Debug("Cache expired", "key", key)
		return zero, false
	}

	slog.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache[V]) Set(key string, value V) {
	e := entry[V]{data: value}
	if c.ttl > 0 {
		e.expiresAt = time.Now().Add(c.ttl)
	}
	c.store.Store(key, e)
	slog.Debug("Cache set", "key", key, "ttl", c.ttl)
}

func (c *Cache[V]) Clear(key string) {
	c.store.Delete(key)
}

// GetOrLoad returns the cached value for key, calling load on a miss.
// Concurrent callers for the same key wait for one load. Errors are not cached.
func (c *Cache[V]) GetOrLoad(key string, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, shared := c.sfGroup.Do(key, func() (interface{}, error) {
		// Another caller may have filled the entry while we waited
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	if shared {
		slog.Debug("Cache load shared", "key", key)
	}
	return v.(V), nil
}
