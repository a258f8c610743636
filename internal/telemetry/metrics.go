// Package telemetry wires the admission core's observed metrics
// (spec.md §6) to Prometheus, in the same promauto-constructed,
// WithLabelValues-at-call-site style as the teacher pack's
// internal/middleware.Metrics + internal/metrics.Metrics pairing.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stage labels used with StageDuration, one per inter-stage boundary
// named in spec.md §4.1: "the pipeline emits durations for parse,
// stateless, nonce, chain-id, removal check, address conversion, cost
// fetch, balance fetch, and mempool insertion."
const (
	StageParse      = "parse"
	StageStateless  = "stateless"
	StageNonce      = "nonce"
	StageChainID    = "chain_id"
	StageRemoval    = "removal_check"
	StageAddress    = "address_conversion"
	StageCost       = "cost_fetch"
	StageBalance    = "balance_fetch"
	StageInsertion  = "mempool_insertion"
)

// Removal-reason labels used with RemovedTotal.
const (
	RemovalTooLarge         = "too_large"
	RemovalFailedStateless  = "failed_stateless"
	RemovalStaleNonce       = "stale_nonce"
	RemovalExpired          = "expired"
	RemovalFailedExecution  = "failed_execution"
)

// Metrics holds every Prometheus collector the CheckTx pipeline
// publishes to (spec.md §6 "Observed metrics"). A single instance is
// shared across all concurrent CheckTx calls via a cheaply-cloned
// pointer, matching the teacher's internal/middleware.Metrics usage.
type Metrics struct {
	RemovedTotal *prometheus.CounterVec

	StageDuration *prometheus.HistogramVec

	MempoolSize prometheus.Gauge

	ActionsPerTransaction  prometheus.Summary
	TransactionSizeBytes   prometheus.Summary
}

// New registers and returns a Metrics instance under namespace (e.g.
// "sequencer"), using reg as the collector registry — pass
// prometheus.NewRegistry() in tests to avoid colliding with the global
// default registry across test runs.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RemovedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checktx",
			Name:      "removed_total",
			Help:      "Transactions rejected by the admission pipeline, by reason.",
		}, []string{"reason"}),

		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "checktx",
			Name:      "stage_duration_seconds",
			Help:      "Per-stage latency of the CheckTx admission pipeline.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),

		MempoolSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "mempool",
			Name:      "size",
			Help:      "Current number of transactions resident in the mempool.",
		}),

		ActionsPerTransaction: factory.NewSummary(prometheus.SummaryOpts{
			Namespace: namespace,
			Subsystem: "checktx",
			Name:      "actions_per_transaction",
			Help:      "Action count of accepted transactions.",
		}),

		TransactionSizeBytes: factory.NewSummary(prometheus.SummaryOpts{
			Namespace: namespace,
			Subsystem: "checktx",
			Name:      "transaction_size_bytes",
			Help:      "Wire size of accepted transactions, in bytes.",
		}),
	}
}

// ObserveStage records a stage boundary's duration in seconds
// (spec.md §4.1, "Each inter-stage boundary is a timing observation
// point").
func (m *Metrics) ObserveStage(stage string, seconds float64) {
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}

// IncRemoved records a rejection by reason.
func (m *Metrics) IncRemoved(reason string) {
	m.RemovedTotal.WithLabelValues(reason).Inc()
}

// ObserveAccepted records the per-accept summaries and the new mempool
// cardinality (spec.md §4.1, "On success the pipeline also publishes:
// action count ... wire-size bytes ... mempool cardinality").
func (m *Metrics) ObserveAccepted(actionCount int, wireSizeBytes int, mempoolSize int) {
	m.ActionsPerTransaction.Observe(float64(actionCount))
	m.TransactionSizeBytes.Observe(float64(wireSizeBytes))
	m.MempoolSize.Set(float64(mempoolSize))
}
