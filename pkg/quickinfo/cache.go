package quickinfo

import (
	"container/list"
	"sync"
)

// DefaultCapacity bounds the cache unless the caller chooses otherwise.
const DefaultCapacity = 2000

type cacheItem struct {
	key   Key
	entry *Entry
}

// Cache is a bounded least-recently-used map from lookup keys to resolved
// hover entries. Construct one per pipeline; there is no package-level
// instance.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[Key]*list.Element
}

// NewCache returns a cache holding at most capacity entries. A capacity of
// zero or less disables eviction.
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[Key]*list.Element),
	}
}

// Get returns the cached entry for key and promotes it to most recently
// used.
func (c *Cache) Get(key Key) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(elem)
	return elem.Value.(cacheItem).entry, true
}

// Set stores entry under key, evicting the least-recently-used entry first
// when the cache is full.
func (c *Cache) Set(key Key, entry *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value = cacheItem{key: key, entry: entry}
		c.ll.MoveToFront(elem)
		return
	}

	if c.capacity > 0 && c.ll.Len() >= c.capacity {
		back := c.ll.Back()
		if back != nil {
			delete(c.items, back.Value.(cacheItem).key)
			c.ll.Remove(back)
		}
	}

	c.items[key] = c.ll.PushFront(cacheItem{key: key, entry: entry})
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
