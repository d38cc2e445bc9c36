package cache

import "time"

// Layered combines the memory and disk caches. Reads check memory first
// and promote disk hits back into memory.
type Layered struct {
	memory Cache
	disk   Cache
}

// NewLayered creates a layered cache. The memory layer sweeps expired
// entries every ten minutes.
func NewLayered(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *Layered {
	return &Layered{
		memory: NewMemory(memoryTTL, 10*time.Minute),
		disk:   NewDisk(diskDir, diskTTL),
	}
}

// Get retrieves a value, checking memory before disk.
func (c *Layered) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	if val, found := c.disk.Get(key); found {
		_ = c.memory.Set(key, val, 0)
		return val, true
	}

	return nil, false
}

// Set stores a value in both layers.
func (c *Layered) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return c.disk.Set(key, value, ttl)
}

// Delete removes a value from both layers.
func (c *Layered) Delete(key string) error {
	_ = c.memory.Delete(key)
	_ = c.disk.Delete(key)
	return nil
}

// Clear drops every entry from both layers.
func (c *Layered) Clear() error {
	_ = c.memory.Clear()
	_ = c.disk.Clear()
	return nil
}
