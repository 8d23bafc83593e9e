package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "heatmap"

// Metrics holds the Prometheus counters, histograms, and gauges for the heatmap service.
type Metrics struct {
	DatasetFetches       *prometheus.CounterVec // labels: outcome={success,error,circuit_open}
	DatasetFetchDuration prometheus.Histogram
	DatasetRecords       prometheus.Gauge
	MalformedRecords     prometheus.Gauge
	ChartReady           prometheus.Gauge

	// Rendering metrics.
	Renders     *prometheus.CounterVec // labels: surface={page,heatmap,legend,cells}
	RenderCache *prometheus.CounterVec // labels: result={hit,miss}

	// Publishing metrics.
	CellsPublished prometheus.Counter
	PublishErrors  prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetFetches,
		m.DatasetFetchDuration,
		m.DatasetRecords,
		m.MalformedRecords,
		m.ChartReady,
		m.Renders,
		m.RenderCache,
		m.CellsPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_fetch_total",
			Help:      "Dataset fetch attempts by outcome.",
		}, []string{"outcome"}),
		DatasetFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_fetch_duration_seconds",
			Help:      "Duration of the dataset request including decoding.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Monthly records in the current dataset.",
		}),
		MalformedRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_malformed_records",
			Help:      "Records in the current dataset missing a year, month or variance.",
		}),
		ChartReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chart_ready",
			Help:      "1 once a chart has been rendered, 0 before.",
		}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Documents written by surface.",
		}, []string{"surface"}),
		RenderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_cache_total",
			Help:      "Resized chart cache lookups by result.",
		}, []string{"result"}),
		CellsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_published_total",
			Help:      "Cell encodings written to the export topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed chart publications.",
		}),
	}
}
