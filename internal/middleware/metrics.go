package middleware

import (
	"time"

	"github.com/deppfellow/datagate/internal/metrics"
	"github.com/labstack/echo/v4"
)

// unmatchedRoute labels requests that matched no route, keeping raw paths
// out of the label set.
const unmatchedRoute = "unmatched"

// RequestMetrics records every request in m by route template.
func RequestMetrics(m *metrics.RequestMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = StatusFor(err)
			}

			route := c.Path()
			if route == "" {
				route = unmatchedRoute
			}
			m.Observe(c.Request().Method, route, status, time.Since(start))

			return err
		}
	}
}
