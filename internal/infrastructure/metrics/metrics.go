package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Import metrics
	ImportsCompleted   prometheus.Counter
	ImportedRecords    *prometheus.CounterVec
	ImportDuration     prometheus.Histogram
	ExtractionDuration prometheus.Histogram
	ExtractionErrors   prometheus.Counter
	DuplicatesResolved *prometheus.CounterVec
	RuleMatches        prometheus.Counter

	// Split ledger metrics
	SplitsSaved        *prometheus.CounterVec
	CreditSwept        prometheus.Counter
	CreditSweepAmount  prometheus.Histogram
	SettlementsApplied prometheus.Counter
	SettlementAmount   prometheus.Histogram
	LedgerErrors       *prometheus.CounterVec
	BatchSize          prometheus.Histogram

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	EventsFailed    prometheus.Counter
}

// New registers all metrics with the default Prometheus registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers all metrics with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// Import metrics
		ImportsCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_imports_completed_total",
			Help: "Total number of import batches committed",
		}),
		ImportedRecords: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_imported_records_total",
				Help: "Imported candidate records by outcome",
			},
			[]string{"outcome"},
		),
		ImportDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitledger_import_duration_seconds",
			Help:    "Duration of import batches",
			Buckets: prometheus.DefBuckets,
		}),
		ExtractionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitledger_extraction_duration_seconds",
			Help:    "Duration of document extraction calls",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),
		ExtractionErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_extraction_errors_total",
			Help: "Total number of failed document extractions",
		}),
		DuplicatesResolved: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_duplicates_resolved_total",
				Help: "Duplicate reviews resolved by resolution",
			},
			[]string{"resolution"},
		),
		RuleMatches: f.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_rule_matches_total",
			Help: "Transactions changed by rule application",
		}),

		// Split ledger metrics
		SplitsSaved: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_splits_saved_total",
				Help: "Splits saved by split type",
			},
			[]string{"split_type"},
		),
		CreditSwept: f.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_credit_sweeps_total",
			Help: "Total number of transactions credit was swept from",
		}),
		CreditSweepAmount: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitledger_credit_sweep_amount",
			Help:    "Credit moved per sweep",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000},
		}),
		SettlementsApplied: f.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_settlements_total",
			Help: "Total number of bulk settlements",
		}),
		SettlementAmount: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitledger_settlement_amount",
			Help:    "Bulk settlement amounts",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 10000},
		}),
		LedgerErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_ledger_errors_total",
				Help: "Ledger batch failures by operation",
			},
			[]string{"operation"},
		),
		BatchSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitledger_batch_size",
			Help:    "Transactions written per atomic batch",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 500},
		}),

		// Outbox metrics
		EventsPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_events_published_total",
				Help: "Outbox events published by event type",
			},
			[]string{"event_type"},
		),
		EventsFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_events_failed_total",
			Help: "Outbox events that failed to publish",
		}),
	}
}
