package metrics

import (
	"errors"
	"time"

	"github.com/deppfellow/datagate/internal/query"
	"github.com/deppfellow/datagate/internal/sqlerr"
	"github.com/prometheus/client_golang/prometheus"
)

// Query outcome labels.
const (
	OutcomeOK           = "ok"
	OutcomeNotFound     = "not_found"
	OutcomeInvalidField = "invalid_field"
	OutcomeInvalidOrder = "invalid_order"
	OutcomeConstraint   = "constraint"
	OutcomeStoreError   = "store_error"
)

// QueryMetrics tracks dynamic query construction and execution.
//
//   - datagate_query_executions_total{operation,outcome}
//   - datagate_query_duration_seconds{operation}
//   - datagate_query_rejections_total{reason}
//
// A nil *QueryMetrics is valid and records nothing.
type QueryMetrics struct {
	executions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	rejections *prometheus.CounterVec
}

// NewQueryMetrics creates the query metric families and registers them.
func NewQueryMetrics(registry prometheus.Registerer) *QueryMetrics {
	qm := &QueryMetrics{
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "query",
				Name:      "executions_total",
				Help:      "Queries handled by the query layer, by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "query",
				Name:      "duration_seconds",
				Help:      "Round-trip time of executed queries.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"operation"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "query",
				Name:      "rejections_total",
				Help:      "Criteria rejected by identifier validation before reaching the store.",
			},
			[]string{"reason"},
		),
	}

	registry.MustRegister(qm.executions, qm.duration, qm.rejections)
	return qm
}

// Observe records one query attempt. Rejected criteria are counted but never
// timed, since nothing was sent to the store.
func (qm *QueryMetrics) Observe(operation string, elapsed time.Duration, err error) {
	if qm == nil {
		return
	}

	outcome := Outcome(err)
	qm.executions.WithLabelValues(operation, outcome).Inc()

	switch outcome {
	case OutcomeInvalidField, OutcomeInvalidOrder:
		qm.rejections.WithLabelValues(outcome).Inc()
	default:
		qm.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
	}
}

// Outcome classifies err into one of the Outcome* labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, query.ErrInvalidFieldName):
		return OutcomeInvalidField
	case errors.Is(err, query.ErrInvalidOrderColumn):
		return OutcomeInvalidOrder
	case errors.Is(err, query.ErrNotFound):
		return OutcomeNotFound
	case isConstraintViolation(err):
		return OutcomeConstraint
	default:
		return OutcomeStoreError
	}
}

// isConstraintViolation reports a write rejected by an integrity constraint
// (SQLSTATE class 23). Those reach the client as 4xx, not as a store failure.
func isConstraintViolation(err error) bool {
	if errors.Is(err, query.ErrStoreExecution) {
		return false
	}
	pgErr, ok := sqlerr.Inspect(err)
	return ok && pgErr.Class() == "23"
}
