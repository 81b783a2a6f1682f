// Package cache provides a bounded, thread-safe LRU cache with hit statistics.
package cache

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Stats holds cache performance metrics.
type Stats struct {
	Hits      int64
	Misses    int64
	Puts      int64
	Evictions int64
	Size      int
	Capacity  int
}

// LRU is a fixed-capacity cache that evicts the least recently used key.
type LRU[K comparable, V any] struct {
	inner    *lru.Cache[K, V]
	capacity int

	hits      atomic.Int64
	misses    atomic.Int64
	puts      atomic.Int64
	evictions atomic.Int64
}

// New creates an LRU holding at most size entries. onEvict, when non-nil, is
// called whenever an entry leaves the cache, including Remove and Purge.
func New[K comparable, V any](size int, onEvict func(K, V)) (*LRU[K, V], error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}

	inner, err := lru.NewWithEvict[K, V](size, onEvict)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru: %w", err)
	}
	return &LRU[K, V]{inner: inner, capacity: size}, nil
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	v, ok := c.inner.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Peek returns the value without touching recency or stats.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	return c.inner.Peek(key)
}

// Put stores value under key and reports whether an older entry was evicted.
func (c *LRU[K, V]) Put(key K, value V) bool {
	c.puts.Add(1)
	evicted := c.inner.Add(key, value)
	if evicted {
		c.evictions.Add(1)
	}
	return evicted
}

// Remove deletes key if present.
func (c *LRU[K, V]) Remove(key K) {
	c.inner.Remove(key)
}

// Purge empties the cache.
func (c *LRU[K, V]) Purge() {
	c.inner.Purge()
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	return c.inner.Len()
}

// Stats returns a snapshot of cache statistics.
func (c *LRU[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Puts:      c.puts.Load(),
		Evictions: c.evictions.Load(),
		Size:      c.inner.Len(),
		Capacity:  c.capacity,
	}
}
