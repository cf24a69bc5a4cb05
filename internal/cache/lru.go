package cache

import (
	"container/list"
	"sync"
	"time"
)

// ResponseCache memoizes final answers keyed by the normalized question.
// Exact-string match only; semantic matching happens upstream via embeddings.
// The cache is bounded: least-recently-used entries are evicted at capacity
// and entries expire after the TTL.
type ResponseCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time
	items    map[string]*entry
	order    *list.List
}

type entry struct {
	key     string
	answer  string
	expires time.Time
	element *list.Element
}

func NewResponseCache(capacity int, ttl time.Duration) *ResponseCache {
	if capacity <= 0 {
		capacity = 512
	}
	return &ResponseCache{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[string]*entry, capacity),
		order:    list.New(),
	}
}

// Get returns the cached answer for key, if present and not expired.
func (c *ResponseCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.items[key]
	if !ok {
		return "", false
	}
	if !ent.expires.IsZero() && !c.now().Before(ent.expires) {
		c.removeEntry(ent)
		return "", false
	}
	c.order.MoveToFront(ent.element)
	return ent.answer, true
}

// Put stores the answer for key, evicting the oldest entry at capacity.
func (c *ResponseCache) Put(key, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		ent.answer = answer
		ent.expires = c.expiry()
		c.order.MoveToFront(ent.element)
		return
	}

	if len(c.items) >= c.capacity {
		c.evictOldest()
	}

	elem := c.order.PushFront(key)
	c.items[key] = &entry{
		key:     key,
		answer:  answer,
		expires: c.expiry(),
		element: elem,
	}
}

// Len reports the number of live entries.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Purge drops every entry.
func (c *ResponseCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry, c.capacity)
	c.order.Init()
}

func (c *ResponseCache) expiry() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(c.ttl)
}

func (c *ResponseCache) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	if ent, ok := c.items[elem.Value.(string)]; ok {
		c.removeEntry(ent)
	}
}

func (c *ResponseCache) removeEntry(ent *entry) {
	c.order.Remove(ent.element)
	delete(c.items, ent.key)
}
