package render

import (
	"container/list"
	"sync"
)

// Cache is a least-recently-used cache with entry and byte caps.
// It is safe for concurrent use.
type Cache[K comparable, V any] struct {
	items      map[K]*list.Element
	order      *list.List
	sizeFunc   func(K, V) int64
	maxEntries int
	maxBytes   int64
	size       int64
	mu         sync.Mutex
}

type cacheEntry[K comparable, V any] struct {
	key  K
	val  V
	size int64
}

// NewCache creates a cache holding at most maxEntries items and
// maxBytes of accounted size. sizeFunc estimates an entry's size in
// bytes; nil counts each entry as 1 byte. A maxBytes of 0 means no
// byte cap.
func NewCache[K comparable, V any](maxEntries int, maxBytes int64, sizeFunc func(K, V) int64) *Cache[K, V] {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache[K, V]{
		items:      make(map[K]*list.Element, maxEntries),
		order:      list.New(),
		sizeFunc:   sizeFunc,
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
	}
}

// Get retrieves a value and marks it as recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*cacheEntry[K, V]).val, true
	}
	var zero V
	return zero, false
}

// Put adds or updates a value, evicting least-recently-used entries
// until both caps hold again.
func (c *Cache[K, V]) Put(key K, val V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entrySize := int64(1)
	if c.sizeFunc != nil {
		entrySize = c.sizeFunc(key, val)
	}

	if elem, ok := c.items[key]; ok {
		old := elem.Value.(*cacheEntry[K, V])
		c.size -= old.size
		old.val = val
		old.size = entrySize
		c.size += entrySize
		c.order.MoveToFront(elem)
		c.evictOverCaps()
		return
	}

	entry := &cacheEntry[K, V]{key: key, val: val, size: entrySize}
	elem := c.order.PushFront(entry)
	c.items[key] = elem
	c.size += entrySize
	c.evictOverCaps()
}

// DeleteFunc removes all entries matching the predicate and returns
// how many were removed.
func (c *Cache[K, V]) DeleteFunc(pred func(K, V) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stale []*list.Element
	for e := c.order.Front(); e != nil; e = e.Next() {
		entry := e.Value.(*cacheEntry[K, V])
		if pred(entry.key, entry.val) {
			stale = append(stale, e)
		}
	}
	for _, e := range stale {
		c.removeElement(e)
	}
	return len(stale)
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Size returns the total accounted size in bytes.
func (c *Cache[K, V]) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*list.Element, c.maxEntries)
	c.order.Init()
	c.size = 0
}

// evictOverCaps drops the oldest entries while either cap is
// exceeded, keeping at least the newest entry.
func (c *Cache[K, V]) evictOverCaps() {
	for c.order.Len() > c.maxEntries && c.order.Len() > 1 {
		c.removeElement(c.order.Back())
	}
	if c.maxBytes <= 0 {
		return
	}
	for c.size > c.maxBytes && c.order.Len() > 1 {
		c.removeElement(c.order.Back())
	}
}

func (c *Cache[K, V]) removeElement(elem *list.Element) {
	entry := elem.Value.(*cacheEntry[K, V])
	c.order.Remove(elem)
	delete(c.items, entry.key)
	c.size -= entry.size
}
