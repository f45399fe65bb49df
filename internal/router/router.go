// Package router builds the Echo instance: global middleware in order, the
// error handler, and every route.
package router

import (
	"net/http"

	"github.com/deppfellow/datagate/internal/handler"
	"github.com/deppfellow/datagate/internal/middleware"
	"github.com/deppfellow/datagate/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middleware.RequestMetrics(s.Metrics.Requests),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, s, h)
	registerUserRoutes(router, h)
	registerIntegrationRoutes(router, h)

	return router
}

func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/health", h.Health.CheckHealth)
	if s.Config.Observability.HealthChecks.Enabled {
		r.GET("/status", h.Health.CheckStatus)
	}
	r.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
}

func registerIntegrationRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/signed-urls/:video_path", handler.HandleText(h.Media.Handler, h.Media.SignedURL, http.StatusOK))
	r.POST("/python", handler.Handle(h.Chat.Handler, h.Chat.Ask, http.StatusOK))
}
