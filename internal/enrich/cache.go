// internal/enrich/cache.go
package enrich

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long an enrichment result stays fresh
const DefaultCacheTTL = 24 * time.Hour

type cacheEntry struct {
	result   Result
	cachedAt time.Time
}

// Cache holds enrichment results keyed by (value, type)
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewCache creates a cache with the given TTL; ttl <= 0 uses the default
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns a fresh cached result, marked IsCached
func (c *Cache) Get(key string) (Result, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().Sub(entry.cachedAt) > c.ttl {
		return Result{}, false
	}
	result := entry.result
	result.IsCached = true
	return result, true
}

// Put stores a result
func (c *Cache) Put(key string, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{result: result, cachedAt: c.now()}
}

// Purge drops stale entries
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-c.ttl)
	for key, entry := range c.entries {
		if entry.cachedAt.Before(cutoff) {
			delete(c.entries, key)
		}
	}
}
