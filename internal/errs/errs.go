// Package errs defines the error shape returned to API clients.
//
// Handlers and services return *HTTPError values (or plain errors that the
// global error handler later maps onto one), so every failure reaches the
// client as the same JSON document:
//
//	{"code": "INVALID_FIELD_NAME", "message": "...", "status": 400, ...}
package errs

// Machine-readable codes used beyond the generic per-status ones.
const (
	CodeInvalidFieldName   = "INVALID_FIELD_NAME"
	CodeInvalidOrderColumn = "INVALID_ORDER_COLUMN"
	CodeRecordNotFound     = "RECORD_NOT_FOUND"
	CodeUpstreamError      = "UPSTREAM_ERROR"
	CodeStorageDisabled    = "STORAGE_DISABLED"
)
