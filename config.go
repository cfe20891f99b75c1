package cache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type config struct {
	logger         *zap.Logger
	registerer     prometheus.Registerer
	metricsName    string
	now            func() time.Time
	warmUpCapacity int
}

const defaultMetricsName = "default"

func defaultConfig() config {
	return config{
		logger:      zap.NewNop(),
		metricsName: defaultMetricsName,
		now:         time.Now,
	}
}

func newConfig(opts ...Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
