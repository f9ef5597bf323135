// Package cache stores serialized enhancement results keyed by the
// request content, so identical descriptions skip the generation call.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"gapfill/internal/model"
)

// Cache defines the interface for result caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from the request content. The normalized
// text goes through the hash, so two raw inputs that normalize to the
// same description share an entry.
func Key(domain, mdl, normalized string) string {
	hash := sha256.Sum256([]byte(domain + "\x00" + mdl + "\x00" + normalized))
	return "gapfill:v1:" + hex.EncodeToString(hash[:])
}

// New builds the cache described by the configuration: layered when a
// disk directory is set, memory-only otherwise, nil when disabled.
func New(cfg model.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		return nil, fmt.Errorf("cache TTL must be positive, got %v", ttl)
	}
	if cfg.Dir != "" {
		diskTTL := cfg.DiskTTL
		if diskTTL <= 0 {
			diskTTL = 24 * time.Hour
		}
		return NewLayeredCache(ttl, cfg.Dir, diskTTL), nil
	}
	return NewMemoryCache(ttl, 10*time.Minute), nil
}
