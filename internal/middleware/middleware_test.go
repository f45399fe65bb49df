package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/datagate/internal/config"
	"github.com/deppfellow/datagate/internal/errs"
	"github.com/deppfellow/datagate/internal/metrics"
	"github.com/deppfellow/datagate/internal/model"
	"github.com/deppfellow/datagate/internal/query"
	"github.com/deppfellow/datagate/internal/server"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(rl config.RateLimitConfig) *server.Server {
	return &server.Server{
		Config:  &config.Config{RateLimit: rl},
		Metrics: metrics.NewCollector(),
	}
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "upstream-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "upstream-123", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "upstream-123", rec.Body.String())
	})
}

func TestGetLogger_FallsBackToNop(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.NotNil(t, GetLogger(c))
}

func TestGlobalErrorHandler(t *testing.T) {
	_, fieldErr := query.ParseColumn("1=1")
	pgErr := &pgconn.PgError{Code: "42703", Message: `column "nickname" does not exist`, Severity: "ERROR"}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "http error passes through",
			err:        errs.NewConflictError("A user with this email already exists", true),
			wantStatus: http.StatusConflict,
			wantCode:   "CONFLICT",
		},
		{
			name:       "rejected filter field",
			err:        fieldErr,
			wantStatus: http.StatusBadRequest,
			wantCode:   errs.CodeInvalidFieldName,
		},
		{
			name:       "missing record",
			err:        &query.NotFoundError{Table: model.UsersTable, Field: model.NameField},
			wantStatus: http.StatusNotFound,
			wantCode:   errs.CodeRecordNotFound,
		},
		{
			name:       "failed read query",
			err:        &query.StoreError{Table: model.UsersTable, Err: pgErr},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
		{
			name:       "unknown route",
			err:        echo.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "wrong method",
			err:        echo.ErrMethodNotAllowed,
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "METHOD_NOT_ALLOWED",
		},
		{
			name:       "anything else",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	global := NewGlobalMiddlewares(newTestServer(config.RateLimitConfig{}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/get_users", nil), rec)

			global.GlobalErrorHandler(tt.err, c)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus, StatusFor(tt.err))

			var body errs.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.NotContains(t, rec.Body.String(), "nickname")
		})
	}
}

func TestGlobalErrorHandler_CommittedResponseUntouched(t *testing.T) {
	global := NewGlobalMiddlewares(newTestServer(config.RateLimitConfig{}))
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, c.String(http.StatusOK, "partial"))

	global.GlobalErrorHandler(errors.New("late failure"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 2, ExpiresIn: time.Minute})
	rl := NewRateLimitMiddleware(s)

	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	e.Use(rl.Limit())
	e.GET("/get_users", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/get_users", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodGet, "/get_users", nil)
	other.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code, "limits are per client")

	health := httptest.NewRequest(http.MethodGet, "/health", nil)
	health.RemoteAddr = "10.0.0.1:5555"
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, health)
	assert.Equal(t, http.StatusOK, rec.Code, "health probes are never limited")

	expected := `
# HELP datagate_http_rate_limited_total Requests rejected by the rate limiter.
# TYPE datagate_http_rate_limited_total counter
datagate_http_rate_limited_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(s.Metrics.Registry(), strings.NewReader(expected), "datagate_http_rate_limited_total"))
}

func TestRateLimit_DisabledAtZeroRate(t *testing.T) {
	rl := NewRateLimitMiddleware(newTestServer(config.RateLimitConfig{}))

	e := echo.New()
	e.Use(rl.Limit())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for i := range 50 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code, fmt.Sprintf("request %d", i))
	}
}

func TestRequestMetrics(t *testing.T) {
	s := newTestServer(config.RateLimitConfig{})

	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	e.Use(RequestMetrics(s.Metrics.Requests))
	e.GET("/get_one_usersname", func(c echo.Context) error {
		return &query.NotFoundError{Table: model.UsersTable, Field: model.NameField}
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get_one_usersname?name=ghost", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	expected := `
# HELP datagate_http_requests_total HTTP requests served, by method, route and status.
# TYPE datagate_http_requests_total counter
datagate_http_requests_total{method="GET",route="/get_one_usersname",status="404"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(s.Metrics.Registry(), strings.NewReader(expected), "datagate_http_requests_total"))
}
