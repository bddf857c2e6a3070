package port

import "time"

// Cache is an injectable TTL key-value cache. Entries self-expire; there is
// no explicit teardown. Concurrent get-or-compute for the same key may
// duplicate the compute within a small window, which is acceptable because
// all cached computations here are idempotent and side-effect-free.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}
