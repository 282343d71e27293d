// Package metrics exposes Prometheus collectors for the ingestion worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// IngestionsTotal counts finished ingestion runs by terminal status.
var IngestionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "statement_ingestions_total",
	Help: "Finished statement ingestion runs by terminal status.",
}, []string{"status"})

// IngestionFailures counts runs that produced no durable record and were
// surfaced back to the queue for retry.
var IngestionFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "statement_ingestion_failures_total",
	Help: "Ingestion runs that failed without producing a statement record.",
})
