// Package pkg is a package that provides utilities for vdrm.
package pkg

import (
	"log/slog"
	"sync"
)

// Cache is a generic read-mostly cache: values are compiled once and then
// served from memory. Safe for concurrent use; the expected pattern is a
// burst of compiles followed by read-only lookups.
type Cache[K comparable, V any] interface {
	Len() int
	Get(key K) (V, bool)
	GetOrCompute(key K, compute func() (V, error)) (V, error)
	Clear()
}

type cacheImpl[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// NewCache creates an empty Cache.
func NewCache[K comparable, V any]() Cache[K, V] {
	return &cacheImpl[K, V]{entries: make(map[K]V)}
}

// Len implements Cache.
func (c *cacheImpl[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Get implements Cache.
func (c *cacheImpl[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.entries[key]

	return value, ok
}

// GetOrCompute implements Cache. The compute function runs outside the
// write lock; on a race the first stored value wins and later results
// are discarded, which is safe because compiled values are immutable.
func (c *cacheImpl[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		return existing, nil
	}

	c.entries[key] = value
	slog.Debug("cached entry", "size", len(c.entries))

	return value, nil
}

// Clear implements Cache.
func (c *cacheImpl[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]V)
}
