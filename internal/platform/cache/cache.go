// Package cache provides an in-memory page cache with TTL and LRU
// eviction. The scraper uses it to avoid re-fetching wiki pages that
// several sources share within a run.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// entry is a cached page with its expiry and LRU position.
type entry struct {
	key       string
	body      []byte
	expiresAt time.Time
	element   *list.Element
}

// PageCache is an in-memory LRU cache for fetched page bodies.
type PageCache struct {
	mu       sync.RWMutex
	capacity int
	items    map[string]*entry
	lruList  *list.List

	hits   int64
	misses int64
}

// NewPageCache creates a page cache with the given capacity. When the
// cache is full, the least recently used page is evicted.
func NewPageCache(capacity int) *PageCache {
	if capacity <= 0 {
		capacity = 64
	}
	return &PageCache{
		capacity: capacity,
		items:    make(map[string]*entry),
		lruList:  list.New(),
	}
}

// Get returns the cached body for a URL, marking it as recently used.
// Expired pages count as misses and are removed on access.
func (c *PageCache) Get(url string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.items[url]
	if !exists {
		c.misses++
		return nil, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.deleteEntry(e)
		c.misses++
		return nil, false
	}

	c.lruList.MoveToFront(e.element)
	c.hits++
	return e.body, true
}

// Set stores a page body. A ttl of 0 means the page never expires.
func (c *PageCache) Set(url string, body []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if existing, exists := c.items[url]; exists {
		existing.body = body
		existing.expiresAt = expiresAt
		c.lruList.MoveToFront(existing.element)
		return
	}

	if len(c.items) >= c.capacity {
		c.evictLRU()
	}

	e := &entry{key: url, body: body, expiresAt: expiresAt}
	e.element = c.lruList.PushFront(e)
	c.items[url] = e
}

// Delete removes a page from the cache.
func (c *PageCache) Delete(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, exists := c.items[url]; exists {
		c.deleteEntry(e)
	}
}

// Clear removes every cached page.
func (c *PageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry)
	c.lruList.Init()
}

// Size returns the current number of cached pages.
func (c *PageCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Capacity returns the maximum number of pages the cache can hold.
func (c *PageCache) Capacity() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.capacity
}

// Stats returns the hit and miss counters since creation.
func (c *PageCache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// CleanExpired removes every expired page and returns how many were
// dropped. The httpclient calls it between source batches.
func (c *PageCache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for _, e := range c.items {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			c.deleteEntry(e)
			removed++
		}
	}
	return removed
}

// evictLRU removes the least recently used page.
// Must be called with c.mu held.
func (c *PageCache) evictLRU() {
	element := c.lruList.Back()
	if element == nil {
		return
	}
	c.deleteEntry(element.Value.(*entry))
}

// deleteEntry removes an entry from both indexes.
// Must be called with c.mu held.
func (c *PageCache) deleteEntry(e *entry) {
	delete(c.items, e.key)
	c.lruList.Remove(e.element)
}
