package config

import (
	"time"
)

// CacheConfig controls the response-cache middleware applied to public GET
// endpoints.  Caching is skipped entirely when Enabled is false or no Redis
// client is available.
type CacheConfig struct {
	Enabled      bool          // master switch
	TTL          time.Duration // lifetime of a cached response
	Prefix       string        // Redis key namespace
	MaxBodyBytes int           // responses larger than this are not cached
}

// LoadCacheConfig builds a CacheConfig from the environment with sensible
// defaults: 30 second TTL, 1 MiB body cap.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      boolenv("CACHE_ENABLED", true),
		TTL:          durenv("CACHE_TTL", 30*time.Second),
		Prefix:       getenv("CACHE_PREFIX", "cache"),
		MaxBodyBytes: intenv("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
