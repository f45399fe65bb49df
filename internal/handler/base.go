package handler

import (
	"net/http"
	"reflect"
	"time"

	"github.com/deppfellow/datagate/internal/middleware"
	"github.com/deppfellow/datagate/internal/query"
	"github.com/deppfellow/datagate/internal/server"
	"github.com/deppfellow/datagate/internal/sqlerr"
	"github.com/deppfellow/datagate/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler carries the shared server dependencies into concrete handlers.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint: it receives a bound, validated request
// and returns the response body or an error.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// ResponseHandler writes a successful result in a specific representation.
type ResponseHandler interface {
	Handle(c echo.Context, result any) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result any)
}

// JSONResponseHandler writes the result as JSON.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	if payload, ok := result.(PayloadResponse); ok {
		if records, ok := payload.Payload.(query.RecordSet); ok {
			txn.AddAttribute("response.records", len(records))
		}
	}
}

// TextResponseHandler writes a string result as text/plain.
type TextResponseHandler struct {
	status int
}

func (h TextResponseHandler) Handle(c echo.Context, result any) error {
	text, _ := result.(string)
	return c.String(h.status, text)
}

func (h TextResponseHandler) GetOperation() string {
	return "handler_text"
}

func (h TextResponseHandler) AddAttributes(*newrelic.Transaction, any) {}

// newRequest returns a fresh zero request for every call, so concurrent
// requests never bind into the same value. Req is normally a pointer type.
func newRequest[Req validation.Validatable]() Req {
	var req Req
	if t := reflect.TypeOf(req); t != nil && t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface().(Req)
	}
	return req
}

// handleRequest binds and validates the request, runs fn, and writes its
// result, logging and tracing every phase.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	fn func(c echo.Context, req Req) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", c.Request().Method).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	req := newRequest[Req]()

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}
		return err
	}
	validationDuration := time.Since(validationStart)

	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	handlerStart := time.Now()
	result, err := fn(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		event := logger.Error()
		if sqlerr.HandleError(err).Status < http.StatusInternalServerError {
			event = logger.Warn()
		}
		event.
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")

		if txn != nil {
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("validation_duration", validationDuration).
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle adapts a typed JSON endpoint to an echo.HandlerFunc.
//
//	router.POST("/add_users", handler.Handle(h.Handler, h.CreateUser, http.StatusCreated))
func Handle[Req validation.Validatable, Res any](h Handler, fn HandlerFunc[Req, Res], status int) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, func(c echo.Context, req Req) (any, error) {
			return fn(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleText adapts a typed endpoint that returns a plain string body.
func HandleText[Req validation.Validatable](h Handler, fn HandlerFunc[Req, string], status int) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, func(c echo.Context, req Req) (any, error) {
			return fn(c, req)
		}, TextResponseHandler{status: status})
	}
}
