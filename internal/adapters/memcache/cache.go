package memcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"smarttravel/internal/adapters/observability"
)

// Cache is an in-process domain.Cache used when no Redis address is configured.
// Values are stored as JSON so callers get the same copy semantics as with Redis.
type Cache struct{ c *gocache.Cache }

func New(defaultTTL, cleanup time.Duration) *Cache {
	return &Cache{c: gocache.New(defaultTTL, cleanup)}
}

func (m *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		observability.ObserveCache("memory", "miss")
		return false, nil
	}
	b, _ := v.([]byte)
	if err := json.Unmarshal(b, dst); err != nil {
		observability.ObserveCache("memory", "corrupt")
		m.c.Delete(key)
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	observability.ObserveCache("memory", "hit")
	return true, nil
}

func (m *Cache) Set(_ context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	observability.ObserveCache("memory", "set")
	ttl := gocache.DefaultExpiration
	if ttlSec > 0 {
		ttl = time.Duration(ttlSec) * time.Second
	}
	m.c.Set(key, b, ttl)
	return nil
}

func (m *Cache) Del(_ context.Context, key string) error {
	observability.ObserveCache("memory", "del")
	m.c.Delete(key)
	return nil
}
