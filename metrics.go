package cache

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "ttlcache"

type metrics struct {
	hits         prometheus.Counter
	misses       prometheus.Counter
	sets         prometheus.Counter
	sweeps       prometheus.Counter
	sweptItems   prometheus.Counter
	skippedSweep prometheus.Counter
}

// newMetrics returns nil if reg is nil, all methods of nil *metrics are no-op.
func newMetrics(reg prometheus.Registerer, name string, itemCount func() int) *metrics {
	if reg == nil {
		return nil
	}

	labels := prometheus.Labels{"cache": name}
	counter := func(metric, help string) prometheus.Counter {
		return register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        metric,
			Help:        help,
			ConstLabels: labels,
		}))
	}

	m := &metrics{
		hits:         counter("hits_total", "The total number of lookups that found a live item."),
		misses:       counter("misses_total", "The total number of lookups that found no live item."),
		sets:         counter("sets_total", "The total number of stored items."),
		sweeps:       counter("sweeps_total", "The total number of completed expired items sweeps."),
		sweptItems:   counter("swept_items_total", "The total number of expired items removed by sweeps."),
		skippedSweep: counter("skipped_sweeps_total", "The total number of sweeps skipped because cache was busy."),
	}

	register(reg, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   metricsNamespace,
		Name:        "items",
		Help:        "The number of stored items, including expired ones not yet removed.",
		ConstLabels: labels,
	}, func() float64 { return float64(itemCount()) }))

	return m
}

// register returns already registered collector on duplicate registration,
// so caches recreated with the same name keep reporting.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *metrics) set() {
	if m != nil {
		m.sets.Inc()
	}
}

func (m *metrics) sweep(removed int) {
	if m != nil {
		m.sweeps.Inc()
		m.sweptItems.Add(float64(removed))
	}
}

func (m *metrics) skip() {
	if m != nil {
		m.skippedSweep.Inc()
	}
}
