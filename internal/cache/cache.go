// Package cache stores extracted events keyed by their inputs so repeated
// batches skip re-extraction.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/capevent/internal/model"
)

// keyPrefix is bumped when the cached event shape changes
const keyPrefix = "capevent:v1:"

// Cache defines the interface for byte caches
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key hashes the parts into a namespaced cache key.
// Parts are length-prefixed so ("ab","c") and ("a","bc") differ.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:%s|", len(p), p)
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// New builds the layered cache described by cfg, or nil when disabled
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}

// GetEvent decodes a cached event. Corrupt entries are treated as misses.
func GetEvent(c Cache, key string) (*model.CapitalEvent, bool) {
	if c == nil {
		return nil, false
	}
	data, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	var event model.CapitalEvent
	if err := json.Unmarshal(data, &event); err != nil {
		_ = c.Delete(key)
		return nil, false
	}
	return &event, true
}

// PutEvent encodes and stores an event with the cache's default TTL
func PutEvent(c Cache, key string, event *model.CapitalEvent) error {
	if c == nil || event == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return c.Set(key, data, 0)
}
