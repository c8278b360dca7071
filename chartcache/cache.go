// Package chartcache caches the chart list attached to catalog entities
// so menu navigation does not re-query the chart associations on every
// breadcrumb move.
package chartcache

import (
	"context"
	"sync"
)

// Cache is a byte-level key/value store. Values are opaque serialized
// snapshots; staleness is bounded by the caller (explicit flush on
// catalog change), not by the cache itself.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// memoryCache is a process-local Cache for single-instance deployments
// and tests.
type memoryCache struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an in-process Cache.
func NewMemory() Cache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = cp
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Close() error {
	return nil
}
