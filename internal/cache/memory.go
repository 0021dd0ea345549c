package cache

import (
	"sync"
	"time"
)

// MemoryFeedCache is the default in-process backend: one entry, one
// deadline, one mutex.
type MemoryFeedCache struct {
	mu       sync.Mutex
	body     []byte
	deadline time.Time
	ttl      time.Duration
}

// NewMemoryFeedCache creates an empty in-process feed cache.
func NewMemoryFeedCache(ttl time.Duration) *MemoryFeedCache {
	return &MemoryFeedCache{ttl: ttl}
}

func (c *MemoryFeedCache) Get() ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.body == nil || time.Now().After(c.deadline) {
		return nil, false
	}
	return c.body, true
}

func (c *MemoryFeedCache) Put(body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.body = body
	c.deadline = time.Now().Add(c.ttl)
}

func (c *MemoryFeedCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.body = nil
}

// Sweep drops the entry if its deadline passed. The cron janitor calls
// this so an expired entry does not linger between reads.
func (c *MemoryFeedCache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.body != nil && time.Now().After(c.deadline) {
		c.body = nil
	}
}
