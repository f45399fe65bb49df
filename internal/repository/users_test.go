package repository_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/deppfellow/datagate/internal/metrics"
	"github.com/deppfellow/datagate/internal/model"
	"github.com/deppfellow/datagate/internal/query"
	"github.com/deppfellow/datagate/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"user_id", "email", "name"}

func newRepo(t *testing.T) (*repository.UserRepository, pgxmock.PgxPoolIface, *metrics.Collector) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	collector := metrics.NewCollector()
	logger := zerolog.Nop()
	return repository.NewUserRepository(mock, collector.Queries, &logger, 0), mock, collector
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery("INSERT INTO users (email, name) VALUES ($1, $2) RETURNING *").
		WithArgs("ada@example.com", "Ada").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("9b2f5c7e-6d6a-4f0e-8f43-1d2b3c4d5e6f", "ada@example.com", "Ada"))

	record, err := repo.Create(context.Background(), model.CreateUserInput{Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, query.Record{
		"user_id": "9b2f5c7e-6d6a-4f0e-8f43-1d2b3c4d5e6f",
		"email":   "ada@example.com",
		"name":    "Ada",
	}, record)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	repo, mock, collector := newRepo(t)

	dup := &pgconn.PgError{Code: "23505", TableName: "users", ConstraintName: "users_email_key"}
	mock.ExpectQuery("INSERT INTO users (email, name) VALUES ($1, $2) RETURNING *").
		WithArgs("ada@example.com", "Ada").
		WillReturnError(dup)

	_, err := repo.Create(context.Background(), model.CreateUserInput{Email: "ada@example.com", Name: "Ada"})

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "23505", pgErr.Code)

	expected := `
# HELP datagate_query_executions_total Queries handled by the query layer, by operation and outcome.
# TYPE datagate_query_executions_total counter
datagate_query_executions_total{operation="create",outcome="constraint"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "datagate_query_executions_total"))
}

func TestUserRepository_List(t *testing.T) {
	repo, mock, collector := newRepo(t)

	mock.ExpectQuery("SELECT * FROM users WHERE name = $1 ORDER BY email DESC").
		WithArgs("Ada").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("id-2", "b@example.com", "Ada").
			AddRow("id-1", "a@example.com", "Ada"))

	records, err := repo.List(context.Background(),
		[]query.FilterCriterion{{Field: "name", Value: "Ada"}},
		query.NewOrderSpec("email", "desc"),
	)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b@example.com", records[0]["email"])
	assert.NoError(t, mock.ExpectationsWereMet())

	expected := `
# HELP datagate_query_executions_total Queries handled by the query layer, by operation and outcome.
# TYPE datagate_query_executions_total counter
datagate_query_executions_total{operation="list",outcome="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "datagate_query_executions_total"))
}

func TestUserRepository_ListRejectsUnsafeField(t *testing.T) {
	repo, mock, collector := newRepo(t)

	_, err := repo.List(context.Background(), []query.FilterCriterion{{Field: "1;DROP TABLE users", Value: "x"}}, nil)

	assert.ErrorIs(t, err, query.ErrInvalidFieldName)
	assert.NoError(t, mock.ExpectationsWereMet(), "nothing may be sent to the store")

	expected := `
# HELP datagate_query_rejections_total Criteria rejected by identifier validation before reaching the store.
# TYPE datagate_query_rejections_total counter
datagate_query_rejections_total{reason="invalid_field"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "datagate_query_rejections_total"))
}

func TestUserRepository_ListUnknownColumnIsStoreError(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery("SELECT * FROM users WHERE nonexistent_col = $1").
		WithArgs("x").
		WillReturnError(&pgconn.PgError{Code: "42703"})

	_, err := repo.List(context.Background(), []query.FilterCriterion{{Field: "nonexistent_col", Value: "x"}}, nil)

	assert.ErrorIs(t, err, query.ErrStoreExecution)
}

func TestUserRepository_GetOne(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery("SELECT * FROM users WHERE email = $1 LIMIT 1").
		WithArgs("ada@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow("id-1", "ada@example.com", "Ada"))

	record, err := repo.GetOne(context.Background(), model.EmailField, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", record["name"])
}

func TestUserRepository_GetOneMissing(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery("SELECT * FROM users WHERE user_id = $1 LIMIT 1").
		WithArgs("00000000-0000-0000-0000-000000000000").
		WillReturnRows(pgxmock.NewRows(userColumns))

	_, err := repo.GetOne(context.Background(), model.UserIDField, "00000000-0000-0000-0000-000000000000")

	assert.ErrorIs(t, err, query.ErrNotFound)
	assert.False(t, errors.Is(err, query.ErrStoreExecution))
}

func TestUserRepository_GetOneRejectsNonLookupField(t *testing.T) {
	repo, mock, _ := newRepo(t)

	_, err := repo.GetOne(context.Background(), "status", "active")

	assert.ErrorIs(t, err, query.ErrInvalidFieldName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
