package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// compile pipeline.
type Metrics struct {
	RecordsConsumed prometheus.Counter
	RecordsCompiled prometheus.Counter
	RecordsExpired  prometheus.Counter // windows already closed at build time
	BuildErrors     prometheus.Counter // malformed provider records
	MergeSuperseded prometheus.Counter // lower-priority duplicates dropped on upsert
	PipelineRunning prometheus.Gauge

	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	CorpusRecords *prometheus.GaugeVec // label: corpus={curated,all}
	FlushErrors   prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsConsumed,
		m.RecordsCompiled,
		m.RecordsExpired,
		m.BuildErrors,
		m.MergeSuperseded,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.CorpusRecords,
		m.FlushErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dst_compiler",
			Name:      "records_consumed_total",
			Help:      "Total raw provider records read from the source topic.",
		}),
		RecordsCompiled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dst_compiler",
			Name:      "records_compiled_total",
			Help:      "Total records stamped with computed SEP fields and loaded.",
		}),
		RecordsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dst_compiler",
			Name:      "records_expired_dropped_total",
			Help:      "Records dropped at build time because their SEP window had already closed.",
		}),
		BuildErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dst_compiler",
			Name:      "build_errors_total",
			Help:      "Provider records rejected as malformed.",
		}),
		MergeSuperseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dst_compiler",
			Name:      "merge_superseded_total",
			Help:      "Records dropped by merge precedence (duplicate ID, lower-priority source).",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dst_compiler",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dst_compiler",
			Name:      "batch_size",
			Help:      "Number of records per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dst_compiler",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-compile-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		CorpusRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dst_compiler",
			Name:      "corpus_records",
			Help:      "Records in the last flushed corpus envelope.",
		}, []string{"corpus"}),
		FlushErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dst_compiler",
			Name:      "corpus_flush_errors_total",
			Help:      "Failed corpus envelope writes.",
		}),
	}
}
