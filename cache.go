package stash

import "sync"

// memoryCache is the in-process tier of a store. It holds live values of
// heterogeneous types erased to any; retrieval sites type-assert and treat a
// failed assertion as a cache miss. Individual operations are safe for
// concurrent use, but compound store operations spanning cache and disk are
// not atomic.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]any
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		entries: make(map[string]any),
	}
}

// get returns the cached value for key, if any.
func (c *memoryCache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// put stores value under key, overwriting any prior entry.
func (c *memoryCache) put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// delete evicts the entry for key. Deleting an absent key is a no-op.
func (c *memoryCache) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// clear evicts every entry.
func (c *memoryCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
}

// len returns the number of cached entries.
func (c *memoryCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
