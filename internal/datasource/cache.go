package datasource

import "sync"

// ClassificationCache maps column name to its Classification.
// Safe for concurrent use.
type ClassificationCache struct {
	mu      sync.RWMutex
	entries map[string]Classification
}

// NewClassificationCache creates an empty cache.
func NewClassificationCache() *ClassificationCache {
	return &ClassificationCache{entries: make(map[string]Classification)}
}

// Get returns the cached classification for a column.
func (c *ClassificationCache) Get(column string) (Classification, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cl, ok := c.entries[column]
	return cl, ok
}

// Put stores the classification for a column.
func (c *ClassificationCache) Put(column string, cl Classification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[column] = cl
}

// Invalidate drops every entry. Call after the schema or data changes.
func (c *ClassificationCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of cached columns.
func (c *ClassificationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
