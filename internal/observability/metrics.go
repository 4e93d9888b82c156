// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	RecordsIngested   *prometheus.CounterVec
	IngestErrors      *prometheus.CounterVec
	MarketFeedUpdates prometheus.Counter

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec
	SKUsAggregated    prometheus.Counter
	AnchorsFlagged    prometheus.Counter
	DecisionsComputed *prometheus.CounterVec
	MissingJoinRows   *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "sku_pricing_lab"
	}

	return &Metrics{
		RecordsIngested: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "records_ingested_total",
			Help:      "Total number of records ingested by stream",
		}, []string{"stream"}),
		IngestErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "errors_total",
			Help:      "Total number of ingestion errors by stream",
		}, []string{"stream"}),
		MarketFeedUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "market_feed_updates_total",
			Help:      "Total number of competitor quotes received over the live feed",
		}),

		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by phase and status",
		}, []string{"phase", "status"}),
		PipelineDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline phase duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}, []string{"phase"}),
		SKUsAggregated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "skus_aggregated_total",
			Help:      "Total number of SKU metric records computed",
		}),
		AnchorsFlagged: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "anchors_flagged_total",
			Help:      "Total number of SKUs flagged as category anchors",
		}),
		DecisionsComputed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "decisions_computed_total",
			Help:      "Total number of pricing decisions by reason",
		}, []string{"reason"}),
		MissingJoinRows: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "missing_join_rows_total",
			Help:      "Total number of transaction rows with no match in a stream",
		}, []string{"stream"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful pricing run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordIngested increments the ingested counter for a stream.
func RecordIngested(stream string, n int) {
	DefaultMetrics.RecordsIngested.WithLabelValues(stream).Add(float64(n))
}

// RecordIngestError increments the ingestion error counter for a stream.
func RecordIngestError(stream string) {
	DefaultMetrics.IngestErrors.WithLabelValues(stream).Inc()
}

// RecordMarketFeedUpdate increments the live feed update counter.
func RecordMarketFeedUpdate() {
	DefaultMetrics.MarketFeedUpdates.Inc()
}

// RecordPipelinePhase records one pipeline phase run.
func RecordPipelinePhase(phase, status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(phase, status).Inc()
	DefaultMetrics.PipelineDuration.WithLabelValues(phase).Observe(durationSeconds)
}

// RecordDecision increments the decision counter for a reason code.
func RecordDecision(reason string) {
	DefaultMetrics.DecisionsComputed.WithLabelValues(reason).Inc()
}

// RecordMissingJoin adds rows that found no match in a stream.
func RecordMissingJoin(stream string, rows int) {
	DefaultMetrics.MissingJoinRows.WithLabelValues(stream).Add(float64(rows))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
