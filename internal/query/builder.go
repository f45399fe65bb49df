package query

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// psql renders ? placeholders as $1, $2, ... for PostgreSQL.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// QueryPlan is a validated statement ready for execution.
//
// Placeholder $k in SQL binds to Args[k-1]; len(Args) always equals the
// number of placeholders. Plans are values and are never mutated after Build.
type QueryPlan struct {
	Table string
	SQL   string
	Args  []any
}

// Build assembles a SELECT over table from filters and an optional order.
//
// table is trusted and comes from code, never from the caller. Every filter
// key and the order column are validated before any SQL text is produced;
// the first rejected identifier aborts the build:
//   - a bad filter key returns a *FieldError wrapping ErrInvalidFieldName
//   - a bad order column returns a *FieldError wrapping ErrInvalidOrderColumn
//
// Filters become "<field> = $n" clauses joined with AND in slice order.
// A field may repeat; each occurrence adds its own clause.
func Build(table string, filters []FilterCriterion, order *OrderSpec) (QueryPlan, error) {
	stmt, err := selectFrom(table, filters, order)
	if err != nil {
		return QueryPlan{}, err
	}
	return render(table, stmt)
}

// selectFrom validates filters and order and returns the unrendered SELECT.
func selectFrom(table string, filters []FilterCriterion, order *OrderSpec) (sq.SelectBuilder, error) {
	columns := make([]Column, len(filters))
	for i, filter := range filters {
		column, err := ParseColumn(filter.Field)
		if err != nil {
			return sq.SelectBuilder{}, err
		}
		columns[i] = column
	}

	var orderBy string
	if order != nil {
		column, err := ParseOrderColumn(order.Column)
		if err != nil {
			return sq.SelectBuilder{}, err
		}
		orderBy = column.String() + " " + order.Direction.String()
	}

	stmt := psql.Select("*").From(table)
	for i, filter := range filters {
		// One Eq per clause keeps the slice order; a multi-key Eq would
		// re-sort and drop repeated fields.
		stmt = stmt.Where(sq.Eq{columns[i].String(): filter.Value})
	}
	if orderBy != "" {
		stmt = stmt.OrderBy(orderBy)
	}
	return stmt, nil
}

func render(table string, stmt sq.SelectBuilder) (QueryPlan, error) {
	sqlText, args, err := stmt.ToSql()
	if err != nil {
		return QueryPlan{}, fmt.Errorf("assemble query for %s: %w", table, err)
	}

	return QueryPlan{
		Table: table,
		SQL:   sqlText,
		Args:  args,
	}, nil
}
