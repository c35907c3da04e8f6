package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// parcel ingestion pipeline.
type Metrics struct {
	ParcelsLoaded prometheus.Gauge
	LoadAttempts  *prometheus.CounterVec // labels: source={remote,local,cache}, outcome={success,failure}
	LoadDuration  prometheus.Histogram
	CacheWrites   *prometheus.CounterVec // labels: outcome={success,failure}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ParcelsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "taxmap",
			Name:      "parcels_loaded",
			Help:      "Number of parcel features in the currently served collection.",
		}),
		LoadAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taxmap",
			Name:      "load_attempts_total",
			Help:      "Data source load attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "taxmap",
			Name:      "load_duration_seconds",
			Help:      "Duration of a complete data-source resolution pass.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CacheWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taxmap",
			Name:      "cache_writes_total",
			Help:      "Write-through cache file writes by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.ParcelsLoaded,
		m.LoadAttempts,
		m.LoadDuration,
		m.CacheWrites,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ParcelsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "taxmap", Name: "parcels_loaded"}),
		LoadAttempts:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "taxmap", Name: "load_attempts_total"}, []string{"source", "outcome"}),
		LoadDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "taxmap", Name: "load_duration_seconds"}),
		CacheWrites:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "taxmap", Name: "cache_writes_total"}, []string{"outcome"}),
	}
}
