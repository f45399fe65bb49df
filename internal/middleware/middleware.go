// Package middleware holds the Echo middleware shared by every route:
// request IDs, the request-scoped logger, New Relic tracing, rate limiting,
// request metrics, and the global error handler.
package middleware
