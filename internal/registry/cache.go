package registry

import (
	"sync"
	"time"
)

// Per-resource cache lifetimes. Listings change often, connector details
// rarely, categories almost never.
const (
	serversTTL    = 5 * time.Minute
	detailsTTL    = time.Hour
	categoriesTTL = 24 * time.Hour
)

type cacheEntry struct {
	value   any
	expires time.Time
}

// memoryCache is a TTL cache keyed by call signature.
// Safe for concurrent use.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// get returns the cached value for key if present and not expired.
// Expired entries are removed on access.
func (c *memoryCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

// set stores value under key for ttl.
func (c *memoryCache) set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		value:   value,
		expires: c.now().Add(ttl),
	}
}

// clear removes all cached entries.
func (c *memoryCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
}
