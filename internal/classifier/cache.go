// Package classifier implements the cache-backed categorization pipeline:
// normalized description -> cache (exact, then fuzzy) -> model fallback ->
// category resolution.
package classifier

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/arkanhakim/catatduit/internal/kv"
)

const (
	categoryKeyPrefix    = "classify:"
	descriptionKeyPrefix = "classify-desc:"
	trackedKeysKey       = "classify:index"

	// similarityThreshold is the minimum fuzzy score for reusing a cached
	// classification.
	similarityThreshold = 0.8

	defaultCacheTTL = 24 * time.Hour
)

// Cache stores classifications keyed by a hash of the normalized
// description, with a companion reverse index (hash -> description) so
// fuzzy lookups work without a list-keys primitive on the store.
type Cache struct {
	store kv.Store
	ttl   time.Duration
	mu    sync.Mutex
}

// NewCache creates a classification cache with the given TTL.
func NewCache(store kv.Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{
		store: store,
		ttl:   ttl,
	}
}

// hashKey derives the deterministic cache key for a normalized description.
func hashKey(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", sum)
}

// Lookup returns a cached category name via exact match first, then fuzzy
// similarity. A fuzzy hit also caches the new description under the same
// category so recurring phrasings stop paying for the scan.
func (c *Cache) Lookup(normalized string) (string, bool) {
	if normalized == "" {
		return "", false
	}

	hash := hashKey(normalized)
	if name, ok := c.store.Get(categoryKeyPrefix + hash); ok {
		return name, true
	}

	return c.fuzzyLookup(normalized)
}

// fuzzyLookup scans tracked descriptions for one similar enough to reuse.
func (c *Cache) fuzzyLookup(normalized string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hashes := c.trackedHashes()
	live := hashes[:0]
	var match string
	var found bool

	for _, h := range hashes {
		desc, ok := c.store.Get(descriptionKeyPrefix + h)
		if !ok {
			// Entry expired; drop it from the index.
			continue
		}
		live = append(live, h)

		if found {
			continue
		}
		if CalculateSimilarity(normalized, desc) >= similarityThreshold {
			if name, ok := c.store.Get(categoryKeyPrefix + h); ok {
				match = name
				found = true
			}
		}
	}

	if len(live) != len(hashes) {
		c.writeIndex(live)
	}

	if found {
		c.putLocked(normalized, match)
		return match, true
	}
	return "", false
}

// Put caches the category for a normalized description and records the
// key in the tracked index.
func (c *Cache) Put(normalized, categoryName string) {
	if normalized == "" || categoryName == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(normalized, categoryName)
}

func (c *Cache) putLocked(normalized, categoryName string) {
	hash := hashKey(normalized)
	c.store.Put(categoryKeyPrefix+hash, categoryName, c.ttl)
	c.store.Put(descriptionKeyPrefix+hash, normalized, c.ttl)

	hashes := c.trackedHashes()
	for _, h := range hashes {
		if h == hash {
			return
		}
	}
	c.writeIndex(append(hashes, hash))
}

// Invalidate drops the cached classification for one description.
func (c *Cache) Invalidate(normalized string) {
	hash := hashKey(normalized)
	c.store.Forget(categoryKeyPrefix + hash)
	c.store.Forget(descriptionKeyPrefix + hash)
}

// Clear drops every tracked classification.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, h := range c.trackedHashes() {
		c.store.Forget(categoryKeyPrefix + h)
		c.store.Forget(descriptionKeyPrefix + h)
	}
	c.store.Forget(trackedKeysKey)
}

// trackedHashes decodes the key index. Callers must hold c.mu.
func (c *Cache) trackedHashes() []string {
	raw, ok := c.store.Get(trackedKeysKey)
	if !ok {
		return nil
	}
	var hashes []string
	if err := json.Unmarshal([]byte(raw), &hashes); err != nil {
		return nil
	}
	return hashes
}

// writeIndex encodes the key index. Callers must hold c.mu.
func (c *Cache) writeIndex(hashes []string) {
	raw, err := json.Marshal(hashes)
	if err != nil {
		return
	}
	c.store.Put(trackedKeysKey, string(raw), c.ttl)
}

// CalculateSimilarity scores two strings in [0, 1] as one minus the
// normalized Levenshtein distance. Identical strings score 1.0.
func CalculateSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}
