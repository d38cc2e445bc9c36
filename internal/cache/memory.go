package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process cache with per-entry TTLs.
type Memory struct {
	store *gocache.Cache
}

// NewMemory creates a memory cache. Expired entries are swept every
// cleanupInterval.
func NewMemory(defaultTTL time.Duration, cleanupInterval time.Duration) *Memory {
	return &Memory{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value by key.
func (c *Memory) Get(key string) ([]byte, bool) {
	if val, found := c.store.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a value with the given TTL. A zero TTL uses the default.
func (c *Memory) Set(key string, value []byte, ttl time.Duration) error {
	c.store.Set(key, value, ttl)
	return nil
}

// Delete removes a value.
func (c *Memory) Delete(key string) error {
	c.store.Delete(key)
	return nil
}

// Clear drops every entry.
func (c *Memory) Clear() error {
	c.store.Flush()
	return nil
}
