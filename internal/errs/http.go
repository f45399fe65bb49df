package errs

import (
	"net/http"
)

func statusCode(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

func newHTTPError(status int, message string, override bool, code *string) *HTTPError {
	formatted := statusCode(status)
	if code != nil {
		formatted = *code
	}
	return &HTTPError{
		Code:     formatted,
		Message:  message,
		Status:   status,
		Override: override,
	}
}

// NewBadRequestError creates a 400. code defaults to BAD_REQUEST when nil;
// errors carries per-field validation failures.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError) *HTTPError {
	err := newHTTPError(http.StatusBadRequest, message, override, code)
	err.Errors = errors
	return err
}

// NewNotFoundError creates a 404.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message, override, code)
}

// NewConflictError creates a 409, used for unique constraint violations.
func NewConflictError(message string, override bool) *HTTPError {
	return newHTTPError(http.StatusConflict, message, override, nil)
}

// NewTooManyRequestsError creates a 429 for rate-limited clients.
func NewTooManyRequestsError(message string) *HTTPError {
	return newHTTPError(http.StatusTooManyRequests, message, true, nil)
}

// NewInternalServerError creates a 500 that never exposes the underlying
// error text.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false, nil)
}

// NewServiceUnavailableError creates a 503 for features whose backing
// service is not configured.
func NewServiceUnavailableError(message string, code *string) *HTTPError {
	return newHTTPError(http.StatusServiceUnavailable, message, true, code)
}

// Ptr returns a pointer to code, for the optional code arguments above.
func Ptr(code string) *string {
	return &code
}
