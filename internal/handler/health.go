package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/datagate/internal/middleware"
	"github.com/deppfellow/datagate/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// Pinger is one dependency probed by the status endpoint.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	Handler
	checks map[string]Pinger
}

// NewHealthHandler probes the dependencies listed in the health_checks
// block. Storage is skipped when no endpoint is configured.
func NewHealthHandler(s *server.Server) *HealthHandler {
	available := map[string]Pinger{
		"database": s.DB.Ping,
		"redis": func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		},
	}
	if s.Storage.Enabled() {
		available["storage"] = s.Storage.Ping
	}

	checks := make(map[string]Pinger)
	for _, name := range s.Config.Observability.HealthChecks.Checks {
		if ping, ok := available[name]; ok {
			checks[name] = ping
		}
	}

	return &HealthHandler{
		Handler: NewHandler(s),
		checks:  checks,
	}
}

// CheckHealth is the liveness probe: the process is up and serving.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.String(http.StatusOK, statusHealthy)
}

type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type StatusResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

// CheckStatus pings every configured dependency and answers 503 when any
// of them fails.
func (h *HealthHandler) CheckStatus(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "status_check").
		Logger()

	response := StatusResponse{
		Status:      statusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]CheckResult, len(h.checks)),
	}

	timeout := h.server.Config.Observability.HealthChecks.Timeout

	for name, ping := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
		checkStart := time.Now()
		err := ping(ctx)
		elapsed := time.Since(checkStart)
		cancel()

		result := CheckResult{Status: statusHealthy, ResponseTime: elapsed.String()}
		if err != nil {
			result.Status = statusUnhealthy
			result.Error = err.Error()
			response.Status = statusUnhealthy

			logger.Error().
				Err(err).
				Str("check", name).
				Dur("response_time", elapsed).
				Msg("dependency check failed")

			h.recordFailure(name, elapsed, err)
		}
		response.Checks[name] = result
	}

	if response.Status != statusHealthy {
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("status check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Msg("status check passed")
	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) recordFailure(check string, elapsed time.Duration, err error) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}
	app.RecordCustomEvent("HealthCheckError", map[string]any{
		"check_type":       check,
		"operation":        "status_check",
		"error_type":       check + "_unhealthy",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}
