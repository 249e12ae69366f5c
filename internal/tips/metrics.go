package tips

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all Prometheus metrics related to tip generation and caching.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	CacheEntries       prometheus.Gauge
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	Generations        prometheus.Counter
	GenerationErrors   *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	Served             *prometheus.CounterVec
}

// NewMetrics creates the tip metrics and registers them with registry.
// It returns an error if metric registration fails.
func NewMetrics(registry prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sprout_tip_cache_entries",
			Help: "Number of species with generated tips in the cache.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sprout_tip_cache_hits_total",
			Help: "Total number of tip cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sprout_tip_cache_misses_total",
			Help: "Total number of tip cache misses.",
		}),
		Generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sprout_tip_generations_total",
			Help: "Total number of remote tip generation calls.",
		}),
		GenerationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sprout_tip_generation_errors_total",
			Help: "Total number of failed tip generations by reason.",
		}, []string{"reason"}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sprout_tip_generation_duration_seconds",
			Help:    "Duration of remote tip generation calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		Served: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sprout_tips_served_total",
			Help: "Total number of tip lists served by source.",
		}, []string{"source"}),
	}

	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register tip metrics: %w", err)
	}
	return m, nil
}

// Describe implements the prometheus.Collector interface.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.CacheEntries.Describe(ch)
	m.CacheHits.Describe(ch)
	m.CacheMisses.Describe(ch)
	m.Generations.Describe(ch)
	m.GenerationErrors.Describe(ch)
	m.GenerationDuration.Describe(ch)
	m.Served.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.CacheEntries.Collect(ch)
	m.CacheHits.Collect(ch)
	m.CacheMisses.Collect(ch)
	m.Generations.Collect(ch)
	m.GenerationErrors.Collect(ch)
	m.GenerationDuration.Collect(ch)
	m.Served.Collect(ch)
}

func (m *Metrics) hit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

func (m *Metrics) generated(seconds float64, entries int) {
	if m != nil {
		m.Generations.Inc()
		m.GenerationDuration.Observe(seconds)
		m.CacheEntries.Set(float64(entries))
	}
}

func (m *Metrics) failed(reason string) {
	if m != nil {
		m.GenerationErrors.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) served(source Source) {
	if m != nil {
		m.Served.WithLabelValues(string(source)).Inc()
	}
}
