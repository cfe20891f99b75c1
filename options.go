package cache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option is an option that can be applied to cache.
type Option func(*config)

// WithLogger sets logger for cache maintenance events.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics registers cache collectors in reg, labeled with name.
func WithMetrics(reg prometheus.Registerer, name string) Option {
	return func(c *config) {
		c.registerer = reg
		if name != "" {
			c.metricsName = name
		}
	}
}

// WithClock sets time source used for expiration.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCapacityHint preallocates room for n items.
func WithCapacityHint(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.warmUpCapacity = n
		}
	}
}
