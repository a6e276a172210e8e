package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hyperifyio/checkhtml/internal/audit"
	"github.com/hyperifyio/checkhtml/internal/report"
)

// runMetrics mirrors the report as Prometheus series so batch runs can be
// picked up by a node_exporter textfile collector.
type runMetrics struct {
	registry       *prometheus.Registry
	files          *prometheus.CounterVec
	originalBytes  prometheus.Counter
	processedBytes prometheus.Counter
	sizeRatio      prometheus.Histogram
	lastRun        prometheus.Gauge
}

func newRunMetrics() *runMetrics {
	m := &runMetrics{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkhtml_files_total",
				Help: "Files checked, labeled by outcome (ok, or the failure kind).",
			},
			[]string{"outcome"},
		),
		originalBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkhtml_original_bytes_total",
			Help: "Bytes read from input files.",
		}),
		processedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkhtml_processed_bytes_total",
			Help: "Bytes of transformed output for files that succeeded.",
		}),
		sizeRatio: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "checkhtml_size_ratio",
			Help:    "Processed size divided by original size, per successful file.",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "checkhtml_last_run_timestamp_seconds",
			Help: "Unix time the run finished.",
		}),
	}
	m.registry.MustRegister(m.files, m.originalBytes, m.processedBytes, m.sizeRatio, m.lastRun)
	return m
}

// Observe implements audit.Observer.
func (m *runMetrics) Observe(rec report.Record) {
	if rec.ReadErr != nil {
		m.files.WithLabelValues("Read").Inc()
		return
	}
	m.originalBytes.Add(float64(rec.OriginalSize))
	size, ok := rec.ProcessedSize()
	if !ok {
		m.files.WithLabelValues(audit.FailureKind(rec.Err())).Inc()
		return
	}
	m.files.WithLabelValues("ok").Inc()
	m.processedBytes.Add(float64(size))
	if rec.OriginalSize > 0 {
		m.sizeRatio.Observe(float64(size) / float64(rec.OriginalSize))
	}
}

// writeTextfile stamps the finish time and writes every series to path.
func (m *runMetrics) writeTextfile(path string, s *audit.Summary) error {
	m.lastRun.Set(float64(s.Finished.Unix()))
	return prometheus.WriteToTextfile(path, m.registry)
}
