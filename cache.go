// Package cache implements an in-process key/value cache with per-item
// expiration and an optional janitor that removes expired items.
package cache

import (
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/moeryomenko/ttlcache/v2/internal/table"
)

// Item is a cached value with its expiration, zero ExpiresAt means never.
type Item[V any] = table.Entry[V]

// Cache is a concurrency-safe ttl cache. Copies of the *Cache pointer share state.
//
// Cache must only be used through the pointer returned by New or NewFrom.
// Janitor is stopped once that pointer becomes unreachable, so a copied
// Cache value keeps serving but its expired items are no longer swept.
type Cache[K comparable, V any] struct {
	*cache[K, V]
}

type cache[K comparable, V any] struct {
	defaultTTL TTL
	now        func() time.Time
	logger     *zap.Logger
	metrics    *metrics

	mu    sync.RWMutex
	items table.Table[K, V]

	loadsMu sync.Mutex
	loads   map[K]*flight[V]

	janitor *janitor
}

// New returns empty cache. Items set with DefaultExpiration use defaultTTL,
// if defaultTTL is DefaultExpiration itself they never expire.
// If sweepInterval is positive, expired items are removed every sweepInterval
// until Close is called or cache becomes unreachable.
func New[K comparable, V any](defaultTTL TTL, sweepInterval time.Duration, opts ...Option) *Cache[K, V] {
	cfg := newConfig(opts...)
	return newCache(defaultTTL, sweepInterval, table.New[K, V](cfg.warmUpCapacity), cfg)
}

// NewFrom returns cache seeded with items. The map is copied.
func NewFrom[K comparable, V any](defaultTTL TTL, sweepInterval time.Duration, items map[K]Item[V], opts ...Option) *Cache[K, V] {
	cfg := newConfig(opts...)
	tbl := table.New[K, V](max(len(items), cfg.warmUpCapacity))
	for key, item := range items {
		tbl.Set(key, item)
	}
	return newCache(defaultTTL, sweepInterval, tbl, cfg)
}

func newCache[K comparable, V any](defaultTTL TTL, sweepInterval time.Duration, items table.Table[K, V], cfg config) *Cache[K, V] {
	if defaultTTL.IsDefault() {
		defaultTTL = NoExpiration
	}

	c := &cache[K, V]{
		defaultTTL: defaultTTL,
		now:        cfg.now,
		logger:     cfg.logger,
		items:      items,
	}
	c.metrics = newMetrics(cfg.registerer, cfg.metricsName, c.ItemCount)

	handle := &Cache[K, V]{c}
	if sweepInterval > 0 {
		// janitor references only inner cache, so handle can be collected
		// while the sweep goroutine is still running.
		c.janitor = runJanitor(sweepInterval, c.DeleteExpired, c.logger)
		runtime.AddCleanup(handle, func(j *janitor) { j.Stop() }, c.janitor)
	}
	return handle
}

// Set inserts or replaces the item for key.
// It panics if expiration time for ttl is not representable.
func (c *cache[K, V]) Set(key K, value V, ttl TTL) {
	entry := c.entry(value, ttl)

	c.mu.Lock()
	c.items.Set(key, entry)
	c.mu.Unlock()

	c.metrics.set()
}

// SetDefault inserts or replaces the item for key with default ttl.
func (c *cache[K, V]) SetDefault(key K, value V) {
	c.Set(key, value, DefaultExpiration)
}

// Replace sets the item only if key holds an item that has not expired yet.
func (c *cache[K, V]) Replace(key K, value V, ttl TTL) bool {
	entry := c.entry(value, ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.items.Get(key)
	if !ok || current.Expired(c.now()) {
		return false
	}
	c.items.Set(key, entry)
	c.metrics.set()
	return true
}

// Get returns the value for specified key if it is present and not expired.
// Expired items are left in place for the janitor.
func (c *cache[K, V]) Get(key K) (V, bool) {
	value, _, ok := c.GetWithExpiration(key)
	return value, ok
}

// GetWithExpiration is like Get but also returns item expiration,
// zero time if it never expires.
func (c *cache[K, V]) GetWithExpiration(key K) (V, time.Time, bool) {
	entry, ok := c.lookup(key)
	if !ok {
		c.metrics.miss()
		var zero V
		return zero, time.Time{}, false
	}
	c.metrics.hit()
	return entry.Value, entry.ExpiresAt, true
}

// Delete removes key from cache, missing key is ignored.
func (c *cache[K, V]) Delete(key K) {
	c.mu.Lock()
	c.items.Remove(key)
	c.mu.Unlock()
}

// Flush removes all items from cache.
func (c *cache[K, V]) Flush() {
	c.mu.Lock()
	c.items.Clear()
	c.mu.Unlock()
}

// ItemCount returns number of stored items, including expired ones
// not yet removed.
func (c *cache[K, V]) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items.Len()
}

// Items returns copy of all stored items, including expired ones.
func (c *cache[K, V]) Items() map[K]Item[V] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[K]Item[V], c.items.Len())
	for key, entry := range c.items {
		out[key] = entry
	}
	return out
}

// DeleteExpired removes items expired at the time of the call.
// If cache is busy with writers the pass is skipped.
func (c *cache[K, V]) DeleteExpired() {
	now := c.now()

	expired := c.expiredKeys(now)
	if len(expired) == 0 {
		c.metrics.sweep(0)
		return
	}

	if !c.mu.TryLock() {
		c.metrics.skip()
		c.logger.Debug("expired items sweep skipped, cache is busy", zap.Int("candidates", len(expired)))
		return
	}
	removed := c.removeExpired(expired, now)
	c.mu.Unlock()

	c.metrics.sweep(removed)
	c.logger.Debug("expired items removed", zap.Int("removed", removed))
}

// expiredKeys returns keys expired at now, taken under the read lock.
func (c *cache[K, V]) expiredKeys(now time.Time) []K {
	c.mu.RLock()
	expirations := c.items.Expirations()
	c.mu.RUnlock()

	expired := make([]K, 0, len(expirations))
	for key, expiresAt := range expirations {
		if !now.Before(expiresAt) {
			expired = append(expired, key)
		}
	}
	return expired
}

// removeExpired removes keys still expired at now. Caller holds the write lock.
func (c *cache[K, V]) removeExpired(keys []K, now time.Time) int {
	removed := 0
	for _, key := range keys {
		// key may be set again since the snapshot.
		if c.items.RemoveIfExpired(key, now) {
			removed++
		}
	}
	return removed
}

// Close stops janitor. It is safe to call Close multiple times.
func (c *cache[K, V]) Close() error {
	if c.janitor != nil {
		c.janitor.Stop()
	}
	return nil
}

func (c *cache[K, V]) lookup(key K) (table.Entry[V], bool) {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.items.Get(key)
	c.mu.RUnlock()

	if !ok || entry.Expired(now) {
		return table.Entry[V]{}, false
	}
	return entry, true
}

func (c *cache[K, V]) entry(value V, ttl TTL) table.Entry[V] {
	if ttl.IsDefault() {
		ttl = c.defaultTTL
	}
	return table.Entry[V]{
		Value:     value,
		ExpiresAt: ttl.expiration(c.now()),
	}
}
