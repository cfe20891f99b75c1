package cache

import (
	"context"
	"fmt"
)

// LoaderFunc loads value for key missing from cache.
type LoaderFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// flight is a load in progress, done is closed once value and err are set.
type flight[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// GetOrLoad returns cached value for key or loads and stores it with ttl.
// Concurrent loads of the same key share one call of load. Cancelling ctx
// releases the caller but not the load in flight.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, key K, ttl TTL, load LoaderFunc[K, V]) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	f := c.startLoad(context.WithoutCancel(ctx), key, ttl, load)

	var zero V
	select {
	case <-f.done:
		if f.err != nil {
			return zero, fmt.Errorf("load %v: %w", key, f.err)
		}
		return f.value, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// startLoad joins the load of key in flight or starts a new one.
// Flights are keyed by K itself, so keys equal only under == share a load.
func (c *cache[K, V]) startLoad(ctx context.Context, key K, ttl TTL, load LoaderFunc[K, V]) *flight[V] {
	c.loadsMu.Lock()
	if f, ok := c.loads[key]; ok {
		c.loadsMu.Unlock()
		return f
	}
	if c.loads == nil {
		c.loads = make(map[K]*flight[V])
	}
	f := &flight[V]{done: make(chan struct{})}
	c.loads[key] = f
	c.loadsMu.Unlock()

	go func() {
		defer func() {
			c.loadsMu.Lock()
			delete(c.loads, key)
			c.loadsMu.Unlock()
			close(f.done)
		}()

		if entry, ok := c.lookup(key); ok {
			f.value = entry.Value
			return
		}
		f.value, f.err = load(ctx, key)
		if f.err == nil {
			c.Set(key, f.value, ttl)
		}
	}()
	return f
}
