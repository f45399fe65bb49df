package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/datagate/internal/query"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	_, fieldErr := query.ParseColumn("bad field")
	_, orderErr := query.ParseOrderColumn("bad column")

	assert.Equal(t, OutcomeOK, Outcome(nil))
	assert.Equal(t, OutcomeInvalidField, Outcome(fieldErr))
	assert.Equal(t, OutcomeInvalidOrder, Outcome(orderErr))
	assert.Equal(t, OutcomeNotFound, Outcome(&query.NotFoundError{Table: "users"}))
	assert.Equal(t, OutcomeStoreError, Outcome(&query.StoreError{Table: "users", Err: errors.New("conn reset")}))
}

func TestOutcome_ConstraintViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, want: OutcomeConstraint},
		{name: "check", err: &pgconn.PgError{Code: "23514"}, want: OutcomeConstraint},
		{name: "wrapped", err: fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23502"}), want: OutcomeConstraint},
		{name: "undefined column", err: &pgconn.PgError{Code: "42703"}, want: OutcomeStoreError},
		{name: "read query", err: &query.StoreError{Table: "users", Err: &pgconn.PgError{Code: "23505"}}, want: OutcomeStoreError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Outcome(tt.err))
		})
	}
}

func TestQueryMetrics_Observe(t *testing.T) {
	collector := NewCollector()
	qm := collector.Queries

	_, fieldErr := query.ParseColumn("1;DROP TABLE users")

	qm.Observe("list", 5*time.Millisecond, nil)
	qm.Observe("list", 7*time.Millisecond, nil)
	qm.Observe("list", 0, fieldErr)
	qm.Observe("search", 0, fieldErr)
	qm.Observe("get_one", 3*time.Millisecond, &query.NotFoundError{Table: "users"})

	assert.Equal(t, float64(2), testutil.ToFloat64(qm.executions.WithLabelValues("list", OutcomeOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(qm.executions.WithLabelValues("list", OutcomeInvalidField)))
	assert.Equal(t, float64(1), testutil.ToFloat64(qm.executions.WithLabelValues("get_one", OutcomeNotFound)))

	// "search" only ever saw rejected criteria, so it has no latency series.
	assert.Equal(t, 2, testutil.CollectAndCount(qm.duration))
	assert.Equal(t, float64(2), testutil.ToFloat64(qm.rejections.WithLabelValues(OutcomeInvalidField)))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var qm *QueryMetrics
	var rm *RequestMetrics

	assert.NotPanics(t, func() {
		qm.Observe("list", time.Millisecond, nil)
		rm.Observe(http.MethodGet, "/get_users", http.StatusOK, time.Millisecond)
		rm.RateLimited()
	})
}

func TestRequestMetrics(t *testing.T) {
	collector := NewCollector()
	rm := collector.Requests

	rm.Observe(http.MethodGet, "/get_users", http.StatusOK, 10*time.Millisecond)
	rm.Observe(http.MethodGet, "/get_users", http.StatusBadRequest, time.Millisecond)
	rm.RateLimited()

	assert.Equal(t, float64(1), testutil.ToFloat64(rm.requests.WithLabelValues(http.MethodGet, "/get_users", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(rm.requests.WithLabelValues(http.MethodGet, "/get_users", "400")))
	assert.Equal(t, float64(1), testutil.ToFloat64(rm.limited))
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector()
	collector.Queries.Observe("list", time.Millisecond, nil)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `datagate_query_executions_total{operation="list",outcome="ok"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}
