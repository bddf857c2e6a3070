package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"walletscope/internal/app/port"
)

// TTLCache wraps patrickmn/go-cache behind the port.Cache interface.
// One instance is created at process start; entries self-expire, so there is
// no teardown. Concurrent GetOrCompute calls for the same key may run the
// compute more than once inside the miss window; callers only hand it
// idempotent lookups.
type TTLCache struct {
	inner *gocache.Cache
}

// New creates a TTLCache with the given default TTL and a janitor that
// sweeps expired entries at twice that interval.
func New(defaultTTL time.Duration) *TTLCache {
	return &TTLCache{inner: gocache.New(defaultTTL, 2*defaultTTL)}
}

// Get returns the cached value for key, if present and unexpired.
func (c *TTLCache) Get(key string) (any, bool) {
	return c.inner.Get(key)
}

// Set stores value under key for ttl. A non-positive ttl uses the default.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.inner.Set(key, value, ttl)
}

var _ port.Cache = (*TTLCache)(nil)

// GetOrCompute returns the cached value for key, computing and storing it on
// a miss. Compute errors are returned to the caller and nothing is cached, so
// a transient upstream failure does not poison the cache.
func GetOrCompute[T any](c port.Cache, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	value, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, value, ttl)
	return value, nil
}
