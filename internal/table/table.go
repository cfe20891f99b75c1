package table

import "time"

// Entry is a cached value with its absolute expiration.
// Zero ExpiresAt means the entry never expires.
type Entry[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// Expired reports whether entry has reached its expiration at now.
func (e Entry[V]) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// Table maps keys to entries. It is not safe for concurrent use,
// callers serialize access.
type Table[K comparable, V any] map[K]Entry[V]

func New[K comparable, V any](warmUpCapacity int) Table[K, V] {
	return make(Table[K, V], warmUpCapacity)
}

func (t Table[K, V]) Set(key K, entry Entry[V]) {
	t[key] = entry
}

func (t Table[K, V]) Get(key K) (Entry[V], bool) {
	entry, ok := t[key]
	return entry, ok
}

func (t Table[K, V]) Len() int {
	return len(t)
}

func (t Table[K, V]) Remove(key K) {
	delete(t, key)
}

// RemoveIfExpired removes key only if the live entry is expired at now.
func (t Table[K, V]) RemoveIfExpired(key K, now time.Time) bool {
	entry, ok := t[key]
	if !ok || !entry.Expired(now) {
		return false
	}
	delete(t, key)
	return true
}

func (t Table[K, V]) Clear() {
	clear(t)
}

// Expirations returns the expiration of every entry that can expire.
func (t Table[K, V]) Expirations() map[K]time.Time {
	out := make(map[K]time.Time, len(t))
	for key, entry := range t {
		if entry.ExpiresAt.IsZero() {
			continue
		}
		out[key] = entry.ExpiresAt
	}
	return out
}
