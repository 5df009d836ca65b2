package cache

import (
	"container/list"
	"sync"
)

// EvictReason tells an eviction callback why an entry left the cache.
type EvictReason uint8

const (
	// EvictCapacity means the entry was the least recently used one when a new key was inserted.
	EvictCapacity EvictReason = iota
	// EvictResize means the entry was dropped because the capacity shrank.
	EvictResize
	// EvictCleared means the whole cache was cleared.
	EvictCleared
)

func (r EvictReason) String() string {
	switch r {
	case EvictCapacity:
		return "capacity"
	case EvictResize:
		return "resize"
	case EvictCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

type node[K comparable, V any] struct {
	key   K
	value V
}

// LRUCache is a bounded, thread-safe map that drops its least recently used
// key once the number of entries exceeds the capacity.
type LRUCache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	index    map[K]*list.Element
	order    *list.List // front = most recently used
	onEvict  func(key K, value V, reason EvictReason)
}

// NewLRUCache returns an empty cache that holds at most capacity entries.
func NewLRUCache[K comparable, V any](capacity int) (*LRUCache[K, V], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &LRUCache[K, V]{
		capacity: capacity,
		index:    make(map[K]*list.Element, min(capacity, 1024)),
		order:    list.New(),
	}, nil
}

// MustNewLRUCache is like NewLRUCache but panics on an invalid capacity.
func MustNewLRUCache[K comparable, V any](capacity int) *LRUCache[K, V] {
	c, err := NewLRUCache[K, V](capacity)
	if err != nil {
		panic(err)
	}
	return c
}

// OnEvict registers fn to be called for every entry that leaves the cache
// other than through Remove. fn runs with the cache lock held and must not
// call back into the cache.
func (c *LRUCache[K, V]) OnEvict(fn func(key K, value V, reason EvictReason)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get returns the value stored under key and marks it most recently used.
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*node[K, V]).value, true
}

// Peek returns the value stored under key without touching its recency.
func (c *LRUCache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		return el.Value.(*node[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is cached. Recency is not updated.
func (c *LRUCache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.index[key]
	return ok
}

// Put stores value under key and marks it most recently used. If the key was
// already present its previous value is returned with replaced set to true.
// Inserting a new key into a full cache evicts the least recently used entry.
func (c *LRUCache[K, V]) Put(key K, value V) (previous V, replaced bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		n := el.Value.(*node[K, V])
		previous, n.value = n.value, value
		c.order.MoveToFront(el)
		return previous, true
	}

	c.index[key] = c.order.PushFront(&node[K, V]{key: key, value: value})
	c.trim(c.capacity, EvictCapacity)
	return previous, false
}

// Remove deletes key and returns the value it held. The evict callback is
// not invoked for explicit removals.
func (c *LRUCache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.Remove(el)
	delete(c.index, key)
	return el.Value.(*node[K, V]).value, true
}

// Resize changes the capacity. Shrinking below the current size evicts the
// least recently used entries immediately and returns how many were dropped.
func (c *LRUCache[K, V]) Resize(capacity int) (int, error) {
	if capacity <= 0 {
		return 0, ErrInvalidCapacity
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.capacity = capacity
	return c.trim(capacity, EvictResize), nil
}

// Capacity returns the current bound.
func (c *LRUCache[K, V]) Capacity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capacity
}

// Len returns the number of cached entries.
func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Keys returns the cached keys from most to least recently used.
func (c *LRUCache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*node[K, V]).key)
	}
	return keys
}

// Clear drops every entry, reporting each one to the evict callback.
func (c *LRUCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.onEvict != nil {
		for el := c.order.Back(); el != nil; el = el.Prev() {
			n := el.Value.(*node[K, V])
			c.onEvict(n.key, n.value, EvictCleared)
		}
	}
	c.index = make(map[K]*list.Element)
	c.order.Init()
}

// trim evicts from the back until at most limit entries remain.
// Must be called with the lock held.
func (c *LRUCache[K, V]) trim(limit int, reason EvictReason) int {
	dropped := 0
	for c.order.Len() > limit {
		el := c.order.Back()
		n := el.Value.(*node[K, V])
		c.order.Remove(el)
		delete(c.index, n.key)
		dropped++
		if c.onEvict != nil {
			c.onEvict(n.key, n.value, reason)
		}
	}
	return dropped
}
