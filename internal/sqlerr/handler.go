package sqlerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/datagate/internal/errs"
	"github.com/deppfellow/datagate/internal/query"
	"github.com/jackc/pgx/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var uniqueConstraintRegex = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// HandleError turns any error raised below the HTTP layer into a
// *errs.HTTPError.
//
//   - *errs.HTTPError values pass through untouched.
//   - Rejected filter fields and order columns become 400s carrying
//     INVALID_FIELD_NAME and INVALID_ORDER_COLUMN.
//   - A missing single record becomes a 404.
//   - A failed read query is always a 500, whatever SQLSTATE caused it.
//   - Constraint violations raised by writes become 400s or a 409.
//   - Everything else is a 500 that hides the original message.
func HandleError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var fieldErr *query.FieldError
	switch {
	case errors.As(err, &fieldErr) && errors.Is(err, query.ErrInvalidFieldName):
		return errs.NewBadRequestError(
			fmt.Sprintf("invalid field name: %q", fieldErr.Field), true,
			errs.Ptr(errs.CodeInvalidFieldName),
			[]errs.FieldError{{Field: fieldErr.Field, Error: "must contain only letters, digits and underscores"}},
		)
	case errors.As(err, &fieldErr) && errors.Is(err, query.ErrInvalidOrderColumn):
		return errs.NewBadRequestError(
			fmt.Sprintf("invalid order_by parameter: %q", fieldErr.Field), true,
			errs.Ptr(errs.CodeInvalidOrderColumn),
			[]errs.FieldError{{Field: query.OrderByParam, Error: "must contain only letters, digits and underscores"}},
		)
	}

	var notFound *query.NotFoundError
	if errors.As(err, &notFound) {
		return errs.NewNotFoundError(
			fmt.Sprintf("%s not found", getEntityName(notFound.Table, "")), true,
			errs.Ptr(errs.CodeRecordNotFound),
		)
	}

	if errors.Is(err, query.ErrStoreExecution) {
		return errs.NewInternalServerError()
	}

	if sqlErr, ok := Inspect(err); ok {
		return handleConstraintError(sqlErr)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}

func handleConstraintError(sqlErr *Error) *errs.HTTPError {
	errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
	message := formatUserFriendlyMessage(sqlErr)

	switch sqlErr.Code {
	case UniqueViolation:
		if column := extractColumnForUniqueViolation(sqlErr.ConstraintName); column != "" {
			message = strings.ReplaceAll(message, "identifier", strings.ToLower(humanizeText(column)))
		}
		err := errs.NewConflictError(message, true)
		err.Code = errorCode
		return err
	case NotNullViolation:
		return errs.NewBadRequestError(message, true, &errorCode, []errs.FieldError{{
			Field: strings.ToLower(sqlErr.ColumnName),
			Error: "is required",
		}})
	case ForeignKeyViolation:
		return errs.NewBadRequestError(message, false, &errorCode, nil)
	case CheckViolation, InvalidTextRepresentation:
		return errs.NewBadRequestError(message, true, &errorCode, nil)
	default:
		return errs.NewInternalServerError()
	}
}

// generateErrorCode derives codes such as USER_ALREADY_EXISTS from the table
// and violation kind.
func generateErrorCode(tableName string, code Code) string {
	domain := "RECORD"
	if tableName != "" {
		domain = strings.ToUpper(singular(tableName))
	}

	action := "ERROR"
	switch code {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation, InvalidTextRepresentation:
		action = "INVALID"
	}

	return domain + "_" + action
}

func formatUserFriendlyMessage(sqlErr *Error) string {
	entity := getEntityName(sqlErr.TableName, sqlErr.ColumnName)
	field := humanizeText(sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", strings.ToLower(entity))
	case UniqueViolation:
		return fmt.Sprintf("A %s with this identifier already exists", strings.ToLower(entity))
	case NotNullViolation:
		if field == "" {
			field = "field"
		}
		return fmt.Sprintf("The %s is required", field)
	case CheckViolation, InvalidTextRepresentation:
		if field != "" {
			return fmt.Sprintf("The %s value is not valid", field)
		}
		return "One or more values are not valid"
	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName prefers a foreign-key style column ("user_id" -> "User"),
// then the singular table name, then "Record".
func getEntityName(tableName, columnName string) string {
	lower := strings.ToLower(columnName)
	if strings.HasSuffix(lower, "_id") {
		return humanizeText(strings.TrimSuffix(lower, "_id"))
	}
	if tableName != "" {
		return humanizeText(singular(tableName))
	}
	return "Record"
}

func singular(name string) string {
	if len(name) > 1 && strings.HasSuffix(strings.ToLower(name), "s") {
		return name[:len(name)-1]
	}
	return name
}

// humanizeText turns "first_name" into "First Name".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation reads the column out of constraint names
// shaped like "unique_users_email" or "users_email_key".
func extractColumnForUniqueViolation(constraintName string) string {
	if rest, ok := strings.CutPrefix(constraintName, "unique_"); ok {
		if i := strings.LastIndex(rest, "_"); i >= 0 {
			return rest[i+1:]
		}
	}

	if matches := uniqueConstraintRegex.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}
	return ""
}
