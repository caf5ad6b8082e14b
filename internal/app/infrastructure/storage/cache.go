package storage

import (
	"github.com/maypok86/otter/v2"
	"time"
)

// Cache is a bounded in-memory map. A zero ttl keeps entries until they are
// evicted by size or replaced.
type Cache[K comparable, V any] struct {
	outer *otter.Cache[K, V]
}

func NewCache[K comparable, V any](capacity int, ttl time.Duration) *Cache[K, V] {
	opts := &otter.Options[K, V]{
		MaximumSize:     capacity,
		InitialCapacity: min(capacity, 1024),
	}
	if ttl > 0 {
		opts.ExpiryCalculator = otter.ExpiryWriting[K, V](ttl)
	}

	return &Cache[K, V]{outer: otter.Must(opts)}
}

func (c *Cache[K, V]) Set(key K, val V) {
	c.outer.Set(key, val)
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.outer.GetIfPresent(key)
}

// Replace swaps the contents for items. New keys are written before stale ones are
// dropped, so readers never observe an empty cache in between.
func (c *Cache[K, V]) Replace(items map[K]V) {
	for k, v := range items {
		c.outer.Set(k, v)
	}

	var stale []K
	for k := range c.outer.All() {
		if _, ok := items[k]; !ok {
			stale = append(stale, k)
		}
	}
	for _, k := range stale {
		c.outer.Invalidate(k)
	}
}

func (c *Cache[K, V]) ClearKey(key K) {
	c.outer.Invalidate(key)
}

func (c *Cache[K, V]) ClearAll() {
	c.outer.InvalidateAll()
}

func (c *Cache[K, V]) Len() int {
	return c.outer.EstimatedSize()
}
