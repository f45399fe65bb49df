package query

import (
	"net/url"
	"sort"
	"strings"
)

// Reserved query parameters. They drive ordering and are never turned into
// equality filters, even though both names pass the identifier rule.
const (
	OrderByParam   = "order_by"
	DirectionParam = "direction"
)

// FilterCriterion is one caller-supplied equality condition: Field = Value.
// Multiple criteria are ANDed together.
type FilterCriterion struct {
	Field string
	Value string
}

// Direction is the sort direction of an OrderSpec.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// ParseDirection normalizes a caller-supplied direction token.
//
// Any casing of "desc" selects Descending. Everything else, including the
// empty string, selects Ascending.
func ParseDirection(token string) Direction {
	if strings.EqualFold(token, "desc") {
		return Descending
	}
	return Ascending
}

// String returns the SQL keyword for d. The zero value renders as ASC.
func (d Direction) String() string {
	if d == Descending {
		return string(Descending)
	}
	return string(Ascending)
}

// OrderSpec is an optional single-column ordering.
type OrderSpec struct {
	Column    string
	Direction Direction
}

// NewOrderSpec builds an OrderSpec from raw request values.
// An empty column means "no ordering" and yields nil.
func NewOrderSpec(column, direction string) *OrderSpec {
	if column == "" {
		return nil
	}
	return &OrderSpec{
		Column:    column,
		Direction: ParseDirection(direction),
	}
}

// IsReserved reports whether name is a control parameter rather than a filter.
func IsReserved(name string) bool {
	return name == OrderByParam || name == DirectionParam
}

// FiltersFromMap converts a field -> value mapping into criteria.
//
// Keys are sorted so that the generated SQL text and the bind list come out
// identical for identical input. Reserved parameters are skipped.
func FiltersFromMap(filters map[string]string) []FilterCriterion {
	fields := make([]string, 0, len(filters))
	for field := range filters {
		if IsReserved(field) {
			continue
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	criteria := make([]FilterCriterion, 0, len(fields))
	for _, field := range fields {
		criteria = append(criteria, FilterCriterion{Field: field, Value: filters[field]})
	}
	return criteria
}

// FiltersFromValues converts URL query parameters into criteria.
//
// Keys are sorted; a key repeated in the query string contributes one
// criterion per value, in the order the values were given. Reserved
// parameters are skipped.
func FiltersFromValues(values url.Values) []FilterCriterion {
	fields := make([]string, 0, len(values))
	for field := range values {
		if IsReserved(field) {
			continue
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var criteria []FilterCriterion
	for _, field := range fields {
		for _, value := range values[field] {
			criteria = append(criteria, FilterCriterion{Field: field, Value: value})
		}
	}
	return criteria
}
