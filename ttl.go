package cache

import (
	"fmt"
	"time"
)

type ttlKind uint8

const (
	ttlDefault ttlKind = iota
	ttlNever
	ttlFinite
)

// TTL selects how long an item lives in cache.
// The zero value is DefaultExpiration.
type TTL struct {
	kind     ttlKind
	duration time.Duration
}

var (
	// DefaultExpiration uses the default ttl the cache was created with.
	DefaultExpiration = TTL{kind: ttlDefault}
	// NoExpiration keeps an item until it is deleted or flushed.
	NoExpiration = TTL{kind: ttlNever}
)

// For returns ttl of exactly d. Non-positive d stores items already expired.
func For(d time.Duration) TTL {
	return TTL{kind: ttlFinite, duration: d}
}

// IsDefault reports whether ttl defers to the cache default.
func (t TTL) IsDefault() bool { return t.kind == ttlDefault }

// IsNever reports whether ttl never expires.
func (t TTL) IsNever() bool { return t.kind == ttlNever }

// Duration returns the explicit duration and true, or false for sentinels.
func (t TTL) Duration() (time.Duration, bool) {
	return t.duration, t.kind == ttlFinite
}

func (t TTL) String() string {
	switch t.kind {
	case ttlDefault:
		return "default"
	case ttlNever:
		return "never"
	default:
		return t.duration.String()
	}
}

// expiration returns absolute expiration time relative to now,
// zero time means no expiration. It must not be called on DefaultExpiration.
func (t TTL) expiration(now time.Time) time.Time {
	switch t.kind {
	case ttlNever:
		return time.Time{}
	case ttlDefault:
		panic("cache: default ttl must be resolved before computing expiration")
	}

	expiresAt := now.Add(t.duration)
	if expiresAt.Sub(now) != t.duration {
		panic(fmt.Sprintf("cache: expiration overflow: %s + %s is not representable", now, t.duration))
	}
	return expiresAt
}
