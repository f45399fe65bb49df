package repository

import (
	"context"
	"time"

	"github.com/deppfellow/datagate/internal/metrics"
	"github.com/deppfellow/datagate/internal/model"
	"github.com/deppfellow/datagate/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const insertUserSQL = `INSERT INTO users (email, name) VALUES ($1, $2) RETURNING *`

// Operation labels used for metrics and logs.
const (
	opCreate = "create"
	opList   = "list"
	opGetOne = "get_one"
)

// lookupFields are the columns a single user may be fetched by.
var lookupFields = map[string]bool{
	model.UserIDField: true,
	model.EmailField:  true,
	model.NameField:   true,
}

// UserRepository reads and writes the users table.
type UserRepository struct {
	db        query.Querier
	metrics   *metrics.QueryMetrics
	logger    *zerolog.Logger
	slowQuery time.Duration
}

// NewUserRepository returns a repository on db. m may be nil; a zero
// slowQuery disables slow query warnings.
func NewUserRepository(db query.Querier, m *metrics.QueryMetrics, logger *zerolog.Logger, slowQuery time.Duration) *UserRepository {
	return &UserRepository{db: db, metrics: m, logger: logger, slowQuery: slowQuery}
}

// Create inserts a user and returns the stored row, including the
// generated user_id.
func (r *UserRepository) Create(ctx context.Context, input model.CreateUserInput) (query.Record, error) {
	start := time.Now()

	user, err := r.insert(ctx, input)
	r.observe(opCreate, start, err)
	if err != nil {
		return nil, err
	}
	return user.Record(), nil
}

func (r *UserRepository) insert(ctx context.Context, input model.CreateUserInput) (model.User, error) {
	rows, err := r.db.Query(ctx, insertUserSQL, input.Email, input.Name)
	if err != nil {
		return model.User{}, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
}

// List returns every user matching all filters, ordered by order when given.
func (r *UserRepository) List(ctx context.Context, filters []query.FilterCriterion, order *query.OrderSpec) (query.RecordSet, error) {
	start := time.Now()

	plan, err := query.Build(model.UsersTable, filters, order)
	if err != nil {
		r.observe(opList, start, err)
		return nil, err
	}

	records, err := query.Fetch[model.User](ctx, r.db, plan)
	r.observe(opList, start, err)
	return records, err
}

// GetOne returns the first user whose field equals value. field must be
// one of user_id, email or name.
func (r *UserRepository) GetOne(ctx context.Context, field, value string) (query.Record, error) {
	start := time.Now()

	if !lookupFields[field] {
		err := &query.FieldError{Kind: query.ErrInvalidFieldName, Field: field}
		r.observe(opGetOne, start, err)
		return nil, err
	}

	record, err := query.Lookup[model.User](ctx, r.db, model.UsersTable, field, value)
	r.observe(opGetOne, start, err)
	return record, err
}

func (r *UserRepository) observe(operation string, start time.Time, err error) {
	elapsed := time.Since(start)
	r.metrics.Observe(operation, elapsed, err)

	if r.slowQuery > 0 && elapsed > r.slowQuery {
		r.logger.Warn().
			Str("table", model.UsersTable).
			Str("operation", operation).
			Dur("elapsed", elapsed).
			Dur("threshold", r.slowQuery).
			Msg("slow query")
	}
}
