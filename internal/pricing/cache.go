package pricing

import (
	"sync"
	"time"
)

const (
	// QuoteTTL bounds how long a current-price quote is reused before a
	// provider is consulted again.
	QuoteTTL = 5 * time.Minute

	// RateTTL bounds how long an exchange rate is reused. Rates move slowly
	// enough that an hour of staleness is acceptable.
	RateTTL = time.Hour
)

type cacheEntry struct {
	value   float64
	expires time.Time
}

// TTLCache is a small in-memory cache of float values with per-cache TTL
// and lazy expiry. Safe for concurrent use.
type TTLCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewTTLCache creates a cache whose entries expire after ttl.
func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached value for key if present and not expired. Expired
// entries are removed on access.
func (c *TTLCache) Get(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	if c.now().After(entry.expires) {
		delete(c.entries, key)
		return 0, false
	}
	return entry.value, true
}

// Set stores a value under key, restarting its TTL.
func (c *TTLCache) Set(key string, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expires: c.now().Add(c.ttl)}
}

// Invalidate drops a single key.
func (c *TTLCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every entry.
func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len reports the number of entries, expired ones included.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
