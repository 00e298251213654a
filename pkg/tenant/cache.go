package tenant

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Validation status labels, as reported by the validate endpoint.
const (
	ValidationActive   = "active"
	ValidationInactive = "inactive"
	ValidationNotFound = "not_found"
	ValidationError    = "error"
)

// Validation is the cached outcome of resolving one hostname. It is purely an
// optimization; the persistent tenant record stays authoritative. Negative
// outcomes (not_found, inactive) are cached too so repeated misses do not
// hammer the store.
type Validation struct {
	Valid    bool      `json:"valid"`
	Status   string    `json:"status"`
	TenantID uuid.UUID `json:"tenant_id,omitzero"`
	Slug     string    `json:"slug,omitempty"`
}

// ValidationCache maps normalized hostnames to validation outcomes.
//
// Implementations must treat expired entries as misses: an entry older than
// its TTL must never be served as fresh. Invalidate must take effect
// synchronously so the next request after an admin mutation observes the
// store, not a stale entry.
type ValidationCache interface {
	Get(ctx context.Context, hostname string) (Validation, bool)
	Set(ctx context.Context, hostname string, v Validation, ttl time.Duration)
	Invalidate(ctx context.Context, hostnames ...string)
}

// DefaultValidationTTL bounds staleness when no explicit invalidation happens.
const DefaultValidationTTL = 5 * time.Minute

// DefaultCacheSize is the default maximum number of cached hostnames.
const DefaultCacheSize = 1000

type cacheEntry struct {
	value     Validation
	expiresAt time.Time
}

// MemoryCache is the default process-local ValidationCache. Concurrent writers
// racing on the same hostname are harmless: both computed the same answer from
// the authoritative store, so last write wins.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	maxSize int
	stop    chan struct{}
	done    chan struct{}
	closed  bool
}

// NewMemoryCache creates an in-memory validation cache with a background
// janitor that sweeps expired entries.
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithSize(DefaultCacheSize)
}

// NewMemoryCacheWithSize creates an in-memory validation cache capped at
// maxSize hostnames. When full, the entry closest to expiry is evicted.
func NewMemoryCacheWithSize(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	c := &MemoryCache{
		entries: make(map[string]cacheEntry),
		maxSize: maxSize,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.janitor()
	return c
}

func (c *MemoryCache) Get(ctx context.Context, hostname string) (Validation, bool) {
	hostname = Normalize(hostname)

	c.mu.RLock()
	entry, ok := c.entries[hostname]
	c.mu.RUnlock()
	if !ok {
		return Validation{}, false
	}

	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another writer may have refreshed it.
		if cur, ok := c.entries[hostname]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, hostname)
		}
		c.mu.Unlock()
		return Validation{}, false
	}

	return entry.value, true
}

func (c *MemoryCache) Set(ctx context.Context, hostname string, v Validation, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultValidationTTL
	}
	hostname = Normalize(hostname)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[hostname]; !exists && len(c.entries) >= c.maxSize {
		c.evictSoonest()
	}
	c.entries[hostname] = cacheEntry{value: v, expiresAt: time.Now().Add(ttl)}
}

func (c *MemoryCache) Invalidate(ctx context.Context, hostnames ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, h := range hostnames {
		delete(c.entries, Normalize(h))
	}
}

// evictSoonest drops the entry closest to expiry. Caller holds the write lock.
func (c *MemoryCache) evictSoonest() {
	var victim string
	var soonest time.Time
	for host, entry := range c.entries {
		if victim == "" || entry.expiresAt.Before(soonest) {
			victim = host
			soonest = entry.expiresAt
		}
	}
	if victim != "" {
		delete(c.entries, victim)
	}
}

func (c *MemoryCache) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *MemoryCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for host, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, host)
		}
	}
}

// Close stops the janitor goroutine and waits for it to finish.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

// NoOpCache disables caching. Every Get is a miss.
type NoOpCache struct{}

func (NoOpCache) Get(ctx context.Context, hostname string) (Validation, bool) {
	return Validation{}, false
}

func (NoOpCache) Set(ctx context.Context, hostname string, v Validation, ttl time.Duration) {}

func (NoOpCache) Invalidate(ctx context.Context, hostnames ...string) {}
