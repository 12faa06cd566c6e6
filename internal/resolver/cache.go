// Package resolver provides a memoizing decorator around the domain area
// resolver. Resolution is pure, so caching is purely a cost optimization:
// the fuzzy stage scans the whole country registry, and workbook releases
// repeat the same few hundred area strings thousands of times.
//
// The cache's scope is one resolver instance, which the pipeline creates
// per run. Nothing is persisted across runs.
package resolver

import (
	"sync"

	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/domain"
	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/observability"
)

// CachedResolver wraps an AreaResolver with an in-memory LRU cache.
// Unresolved outcomes are cached too: unlike a remote lookup there is no
// transient failure to retry, an unresolvable name stays unresolvable for
// the life of the configuration.
type CachedResolver struct {
	inner   domain.AreaResolver
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedResolver creates a cache decorator around a resolver. Metrics
// may be nil.
func NewCachedResolver(inner domain.AreaResolver, maxEntries int, metrics *observability.Metrics) *CachedResolver {
	return &CachedResolver{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// Resolve answers from the cache when possible, recording hit/miss and
// strategy-outcome metrics.
func (c *CachedResolver) Resolve(area string) domain.AreaCode {
	if result, ok := c.cache.get(area); ok {
		c.count("hit")
		return result
	}
	c.count("miss")

	result := c.inner.Resolve(area)
	c.cache.put(area, result)
	if c.metrics != nil {
		c.metrics.ResolveOutcomes.WithLabelValues(string(result.Method)).Inc()
	}
	return result
}

func (c *CachedResolver) count(result string) {
	if c.metrics != nil {
		c.metrics.ResolverCache.WithLabelValues(result).Inc()
	}
}

// lruCache is a simple thread-safe LRU cache for AreaCodes.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.AreaCode
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.AreaCode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.AreaCode{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.AreaCode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
