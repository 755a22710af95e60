// Package cache is a small generic LRU, used to memoize derived values
// (symbol stats, model outputs) off the hot path. container/list carries the
// recency ordering so there is no manual pointer surgery to get wrong.
package cache

import "container/list"

type entry[K comparable, V any] struct {
	key K
	val V
}

// Cache evicts the least recently used entry once capacity is exceeded.
// Not safe for concurrent use.
type Cache[K comparable, V any] struct {
	capacity int
	ll       *list.List
	items    map[K]*list.Element
}

// New returns a cache holding at most capacity entries. A capacity <= 0
// stores nothing.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[K]*list.Element),
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*entry[K, V]).val, true
}

// Put inserts or overwrites key, marking it most recently used, and evicts
// the coldest entry if the cache is over capacity. Overwriting on an
// existing key is deliberate here, unlike the order book's duplicate-id
// rejection: cached values are replaceable by definition.
func (c *Cache[K, V]) Put(key K, val V) {
	if c.capacity <= 0 {
		return
	}
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*entry[K, V]).val = val
		return
	}
	c.items[key] = c.ll.PushFront(&entry[K, V]{key: key, val: val})
	if c.ll.Len() > c.capacity {
		victim := c.ll.Back()
		c.ll.Remove(victim)
		delete(c.items, victim.Value.(*entry[K, V]).key)
	}
}

// Contains reports presence without touching recency.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int { return len(c.items) }

// Clear drops everything.
func (c *Cache[K, V]) Clear() {
	c.ll.Init()
	clear(c.items)
}
