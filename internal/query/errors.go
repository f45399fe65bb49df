package query

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every failure this package can return.
// Use errors.Is against these; the concrete types below carry the details.
var (
	// ErrInvalidFieldName means a filter key failed the identifier rule.
	ErrInvalidFieldName = errors.New("invalid field name")

	// ErrInvalidOrderColumn means the order_by column failed the identifier rule.
	ErrInvalidOrderColumn = errors.New("invalid order_by parameter")

	// ErrStoreExecution means a validated statement failed inside the database.
	ErrStoreExecution = errors.New("store execution failed")

	// ErrNotFound means a single-record lookup matched zero rows.
	ErrNotFound = errors.New("record not found")
)

// FieldError reports a caller-supplied identifier that was rejected.
//
// Kind is either ErrInvalidFieldName or ErrInvalidOrderColumn, depending on
// which input channel the identifier came from.
type FieldError struct {
	Kind  error
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// StoreError wraps a driver error raised while executing a QueryPlan.
//
// It unwraps to both ErrStoreExecution and the driver error, so callers can
// still reach *pgconn.PgError with errors.As.
type StoreError struct {
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Table, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStoreExecution, e.Err}
}

// NotFoundError is returned by Lookup when no row matches the key.
type NotFoundError struct {
	Table string
	Field string
}

func (e *NotFoundError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("no record found in %s", e.Table)
	}
	return fmt.Sprintf("no record found in %s with %s = the value", e.Table, e.Field)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
