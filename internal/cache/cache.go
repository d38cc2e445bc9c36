// Package cache provides the page cache used by the fetch layer. Entries
// are keyed by URL hash and carry a schema version so a format change
// invalidates old entries instead of misparsing them.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage interface shared by the memory, disk and layered
// implementations.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for a URL.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "credence:v1:" + hex.EncodeToString(hash[:])
}
