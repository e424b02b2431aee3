// Package metrics exposes Prometheus metrics for content builds.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds build metrics on a private registry. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	documents     *prometheus.CounterVec
	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	entries       *prometheus.GaugeVec
}

// New creates and registers all metrics used by the application.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "decksite_documents_total",
				Help: "Total number of validated content documents by collection and status.",
			},
			[]string{"collection", "status"},
		),
		builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "decksite_builds_total",
				Help: "Total number of content builds by status.",
			},
			[]string{"status"},
		),
		buildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "decksite_build_duration_seconds",
				Help:    "Duration of content builds in seconds.",
				Buckets: prometheus.DefBuckets,
			},
		),
		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "decksite_collection_entries",
				Help: "Number of valid entries per collection in the last build.",
			},
			[]string{"collection"},
		),
	}

	m.registry.MustRegister(
		m.documents,
		m.builds,
		m.buildDuration,
		m.entries,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveCollection records the outcome of loading one collection.
func (m *Metrics) ObserveCollection(collection string, valid, invalid int) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(collection, "valid").Add(float64(valid))
	m.documents.WithLabelValues(collection, "invalid").Add(float64(invalid))
	m.entries.WithLabelValues(collection).Set(float64(valid))
}

// ObserveBuild records a finished build. Status is "success" or "failed".
func (m *Metrics) ObserveBuild(status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.builds.WithLabelValues(status).Inc()
	m.buildDuration.Observe(dur.Seconds())
}

// Handler returns the HTTP handler serving the metrics registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
