package query

import "regexp"

// identifierRegex accepts non-empty strings made only of ASCII letters,
// digits and underscores. Go's $ anchors at end of text, so a trailing
// newline is rejected too.
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// IsValidIdentifier reports whether name may be spliced into SQL text as a
// column reference.
//
// This is a whitelist, not a schema check: "does_not_exist" passes here and
// only fails once the statement reaches the database.
func IsValidIdentifier(name string) bool {
	return identifierRegex.MatchString(name)
}

// Column is a column name that has passed IsValidIdentifier.
//
// The zero value is not a usable column; obtain one through ParseColumn.
// Keeping identifiers in their own type stops bind values from ever taking
// the identifier path by accident.
type Column struct {
	name string
}

// ParseColumn validates a filter key and returns it as a Column.
func ParseColumn(name string) (Column, error) {
	return parseIdentifier(name, ErrInvalidFieldName)
}

// ParseOrderColumn validates an order_by column and returns it as a Column.
func ParseOrderColumn(name string) (Column, error) {
	return parseIdentifier(name, ErrInvalidOrderColumn)
}

func parseIdentifier(name string, kind error) (Column, error) {
	if !IsValidIdentifier(name) {
		return Column{}, &FieldError{Kind: kind, Field: name}
	}
	return Column{name: name}, nil
}

func (c Column) String() string {
	return c.name
}
