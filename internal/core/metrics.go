package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pass counters. A nil *Metrics records nothing.
type Metrics struct {
	passes       *prometheus.CounterVec
	charts       *prometheus.CounterVec
	passDuration *prometheus.HistogramVec
	datasetRows  prometheus.Histogram
	inflight     prometheus.Gauge
}

// NewMetrics registers the pass metrics with r.
func NewMetrics(r prometheus.Registerer) *Metrics {
	return &Metrics{
		passes: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "autochart_passes_total",
			Help: "Total number of passes by input format and outcome.",
		}, []string{"format", "status"}),
		charts: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "autochart_charts_selected_total",
			Help: "Total number of charts selected by kind.",
		}, []string{"kind"}),
		passDuration: promauto.With(r).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "autochart_pass_duration_seconds",
			Help:    "Time taken to ingest, classify and select a chart for one upload.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		datasetRows: promauto.With(r).NewHistogram(prometheus.HistogramOpts{
			Name:    "autochart_dataset_rows",
			Help:    "Number of rows in ingested datasets.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		inflight: promauto.With(r).NewGauge(prometheus.GaugeOpts{
			Name: "autochart_passes_inflight",
			Help: "Number of passes currently running.",
		}),
	}
}

func (m *Metrics) observePass(format string, status PassStatus, d time.Duration) {
	if m == nil {
		return
	}
	if format == "" {
		format = "unknown"
	}
	m.passes.WithLabelValues(format, string(status)).Inc()
	m.passDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (m *Metrics) observeDataset(ds *Dataset) {
	if m == nil {
		return
	}
	m.datasetRows.Observe(float64(ds.NumRows()))
}

func (m *Metrics) observeChart(kind ChartKind) {
	if m == nil {
		return
	}
	m.charts.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) passStarted() {
	if m != nil {
		m.inflight.Inc()
	}
}

func (m *Metrics) passFinished() {
	if m != nil {
		m.inflight.Dec()
	}
}
