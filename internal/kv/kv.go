// Package kv defines the key-value cache port used for classification
// caching and rate-limit flags. Implementations must be safe for
// concurrent use; values are idempotent strings, so last-write-wins races
// are tolerated.
package kv

import "time"

// Store is a generic TTL key-value store. A Store is always best-effort:
// callers treat any miss the same way, whether the key expired, was never
// written, or the backing store was unavailable.
type Store interface {
	Get(key string) (string, bool)
	Put(key, value string, ttl time.Duration)
	Has(key string) bool
	Forget(key string)
}
