package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/moeryomenko/synx"
	"go.uber.org/zap"
)

// janitor periodically calls sweep until stopped.
type janitor struct {
	interval time.Duration
	logger   *zap.Logger

	group   *synx.CtxGroup
	cancel  context.CancelFunc
	once    sync.Once
	running atomic.Bool
}

func runJanitor(interval time.Duration, sweep func(), logger *zap.Logger) *janitor {
	ctx, cancel := context.WithCancel(context.Background())
	j := &janitor{
		interval: interval,
		logger:   logger,
		group:    synx.NewCtxGroup(ctx),
		cancel:   cancel,
	}
	j.running.Store(true)
	j.group.Go(func(ctx context.Context) error {
		j.run(ctx, sweep)
		return nil
	})
	return j
}

func (j *janitor) run(ctx context.Context, sweep func()) {
	defer j.running.Store(false)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Debug("janitor started", zap.Duration("interval", j.interval))
	for {
		select {
		case <-ticker.C:
			sweep()
		case <-ctx.Done():
			j.logger.Debug("janitor stopped")
			return
		}
	}
}

// Stop signals janitor to exit and waits for the running sweep to finish.
func (j *janitor) Stop() {
	j.once.Do(j.cancel)
	j.group.Wait()
}

// Running reports whether the sweep loop has not exited yet.
func (j *janitor) Running() bool {
	return j.running.Load()
}
