package query

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Querier is the slice of *pgxpool.Pool the executor needs.
// It is satisfied by *pgxpool.Pool, *pgx.Conn, pgx.Tx and pgxmock pools.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Fetch runs plan and returns every matching row as a Record.
//
// T is the row struct; its exported fields are matched to result columns by
// name. There is no LIMIT: all matching rows are read. Any driver failure,
// including a column that passed the identifier rule but does not exist, is
// returned as a *StoreError. Nothing is retried.
func Fetch[T Recordable](ctx context.Context, db Querier, plan QueryPlan) (RecordSet, error) {
	rows, err := db.Query(ctx, plan.SQL, plan.Args...)
	if err != nil {
		return nil, &StoreError{Table: plan.Table, Err: err}
	}

	// CollectRows closes rows on every path.
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, &StoreError{Table: plan.Table, Err: err}
	}

	records := make(RecordSet, 0, len(items))
	for _, item := range items {
		records = append(records, item.Record())
	}
	return records, nil
}

// FetchOne runs plan and returns the first matching row.
//
// Zero rows is reported as a *NotFoundError, never as an empty result and
// never as a *StoreError.
func FetchOne[T Recordable](ctx context.Context, db Querier, plan QueryPlan) (Record, error) {
	rows, err := db.Query(ctx, plan.SQL, plan.Args...)
	if err != nil {
		return nil, &StoreError{Table: plan.Table, Err: err}
	}

	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Table: plan.Table}
		}
		return nil, &StoreError{Table: plan.Table, Err: err}
	}
	return item.Record(), nil
}

// Lookup is the single-record variant of Build + Fetch: it selects the first
// row of table whose field equals value. The statement carries LIMIT 1 so
// only that row leaves the server.
func Lookup[T Recordable](ctx context.Context, db Querier, table, field, value string) (Record, error) {
	stmt, err := selectFrom(table, []FilterCriterion{{Field: field, Value: value}}, nil)
	if err != nil {
		return nil, err
	}

	plan, err := render(table, stmt.Limit(1))
	if err != nil {
		return nil, err
	}

	record, err := FetchOne[T](ctx, db, plan)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			notFound.Field = field
		}
		return nil, err
	}
	return record, nil
}
