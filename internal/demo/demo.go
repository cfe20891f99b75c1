// Package demo drives a cache through the default, never and short ttl
// cases and reports what is still visible over time.
package demo

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	cache "github.com/moeryomenko/ttlcache/v2"
)

type Params struct {
	DefaultTTL     time.Duration
	SweepInterval  time.Duration
	ShortTTL       time.Duration
	ReportInterval time.Duration
	Duration       time.Duration
}

var keys = []string{"a", "b", "c"}

// Run stores items a (default ttl), b (no expiration) and c (short ttl)
// and writes a report line to out every report interval until duration
// elapses or ctx is done.
func Run(ctx context.Context, p Params, logger *zap.Logger, out io.Writer) error {
	if p.ReportInterval <= 0 {
		return fmt.Errorf("report interval must be positive, got %s", p.ReportInterval)
	}

	c := cache.New[string, int](ttlOf(p.DefaultTTL), p.SweepInterval, cache.WithLogger(logger))
	defer c.Close()

	c.Set("a", 1, cache.DefaultExpiration)
	c.Set("b", 2, cache.NoExpiration)
	c.Set("c", 3, cache.For(p.ShortTTL))
	logger.Info("cache populated",
		zap.Duration("default_ttl", p.DefaultTTL),
		zap.Duration("sweep_interval", p.SweepInterval),
		zap.Duration("short_ttl", p.ShortTTL),
	)

	start := time.Now()
	ticker := time.NewTicker(p.ReportInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(p.Duration)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("demo interrupted")
			return nil
		case <-deadline.C:
			return report(out, c, time.Since(start))
		case <-ticker.C:
			if err := report(out, c, time.Since(start)); err != nil {
				return err
			}
		}
	}
}

func report(out io.Writer, c *cache.Cache[string, int], elapsed time.Duration) error {
	line := fmt.Sprintf("t=%s items=%d", elapsed.Round(time.Second), c.ItemCount())
	for _, key := range keys {
		if value, ok := c.Get(key); ok {
			line += fmt.Sprintf(" %s=%d", key, value)
		} else {
			line += fmt.Sprintf(" %s=<absent>", key)
		}
	}
	if _, err := fmt.Fprintln(out, line); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func ttlOf(d time.Duration) cache.TTL {
	if d <= 0 {
		return cache.DefaultExpiration
	}
	return cache.For(d)
}
