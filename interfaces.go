package cache

import (
	"io"
	"time"

	"github.com/moeryomenko/ttlcache/v2/internal/table"
)

// storage is internal common interface of cache item storage.
type storage[K comparable, V any] interface {
	// Set inserts or updates the specified key-value pair.
	Set(key K, entry table.Entry[V])
	// Get returns the entry for specified key if it is present.
	Get(key K) (table.Entry[V], bool)
	// Remove removes item from storage by given key.
	Remove(key K)
	// RemoveIfExpired removes item only if it is expired at now.
	RemoveIfExpired(key K, now time.Time) bool
	// Expirations returns expiration of every item that can expire.
	Expirations() map[K]time.Time
	// Clear removes all items.
	Clear()
	// Len returns current size of storage.
	Len() int
}

var (
	_ storage[int, any] = (table.Table[int, any])(nil)
	_ io.Closer         = (*Cache[string, any])(nil)
)
