package resolve

import (
	"context"
	"sync"
	"time"
)

type cacheEntry struct {
	name      string
	ok        bool
	expiresAt time.Time
}

// CachingResolver wraps any Resolver and caches results with a TTL.
// Misses are cached too, so a container the daemon does not know about
// does not trigger an inspect per log line.
type CachingResolver struct {
	inner   Resolver
	ttl     time.Duration
	maxSize int

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewCachingResolver wraps r with a TTL cache.
func NewCachingResolver(r Resolver, ttl time.Duration, maxSize int) *CachingResolver {
	return &CachingResolver{
		inner:   r,
		ttl:     ttl,
		maxSize: maxSize,
		cache:   make(map[string]cacheEntry),
	}
}

func (c *CachingResolver) Resolve(ctx context.Context, ref string) (string, bool) {
	c.mu.RLock()
	if e, ok := c.cache[ref]; ok && time.Now().Before(e.expiresAt) {
		c.mu.RUnlock()
		return e.name, e.ok
	}
	c.mu.RUnlock()

	name, ok := c.inner.Resolve(ctx, ref)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		c.evictOldest()
	}
	c.cache[ref] = cacheEntry{
		name:      name,
		ok:        ok,
		expiresAt: time.Now().Add(c.ttl),
	}

	return name, ok
}

// Invalidate removes a single reference from the cache, e.g. after a
// container restart renames it.
func (c *CachingResolver) Invalidate(ref string) {
	c.mu.Lock()
	delete(c.cache, ref)
	c.mu.Unlock()
}

func (c *CachingResolver) evictOldest() {
	var oldest string
	var oldestTime time.Time
	for ref, e := range c.cache {
		if oldest == "" || e.expiresAt.Before(oldestTime) {
			oldest = ref
			oldestTime = e.expiresAt
		}
	}
	if oldest != "" {
		delete(c.cache, oldest)
	}
}
