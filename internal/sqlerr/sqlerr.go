// Package sqlerr classifies PostgreSQL driver errors and maps them, along
// with the query package's error taxonomy, onto client-facing HTTP errors.
package sqlerr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Code is a coarse category of a PostgreSQL SQLSTATE.
type Code string

const (
	Other                      Code = "other"
	UniqueViolation            Code = "unique_violation"
	ForeignKeyViolation        Code = "foreign_key_violation"
	NotNullViolation           Code = "not_null_violation"
	CheckViolation             Code = "check_violation"
	UndefinedColumn            Code = "undefined_column"
	UndefinedTable             Code = "undefined_table"
	InvalidTextRepresentation  Code = "invalid_text_representation"
	SyntaxError                Code = "syntax_error"
	QueryCanceled              Code = "query_canceled"
	ConnectionException        Code = "connection_exception"
	SerializationFailure       Code = "serialization_failure"
	InsufficientResources      Code = "insufficient_resources"
	IntegrityConstraintGeneric Code = "integrity_constraint_violation"
)

var sqlStateCodes = map[string]Code{
	"23505": UniqueViolation,
	"23503": ForeignKeyViolation,
	"23502": NotNullViolation,
	"23514": CheckViolation,
	"23000": IntegrityConstraintGeneric,
	"42703": UndefinedColumn,
	"42P01": UndefinedTable,
	"22P02": InvalidTextRepresentation,
	"42601": SyntaxError,
	"57014": QueryCanceled,
	"40001": SerializationFailure,
}

// SQLSTATE classes matched when the exact code has no entry.
var sqlStateClasses = map[string]Code{
	"08": ConnectionException,
	"23": IntegrityConstraintGeneric,
	"53": InsufficientResources,
}

// MapCode categorizes a five-character SQLSTATE.
func MapCode(sqlState string) Code {
	if code, ok := sqlStateCodes[sqlState]; ok {
		return code
	}
	if len(sqlState) >= 2 {
		if code, ok := sqlStateClasses[sqlState[:2]]; ok {
			return code
		}
	}
	return Other
}

// Severity mirrors the severity field of a PostgreSQL error report.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// MapSeverity normalizes the severity string sent by the server. Unknown
// values are treated as ERROR.
func MapSeverity(severity string) Severity {
	switch s := Severity(severity); s {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return s
	default:
		return SeverityError
	}
}

// Error is a classified copy of a *pgconn.PgError.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return string(e.Severity) + ": " + e.Message + " (SQLSTATE " + e.DatabaseCode + ")"
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// Class returns the two-character SQLSTATE class, e.g. "42" for syntax
// errors and access rule violations.
func (e *Error) Class() string {
	if len(e.DatabaseCode) < 2 {
		return ""
	}
	return e.DatabaseCode[:2]
}

// ConvertPgError classifies a raw server error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// Inspect finds a server error anywhere in err's chain and classifies it.
func Inspect(err error) (*Error, bool) {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr, true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ConvertPgError(pgErr), true
	}
	return nil, false
}
