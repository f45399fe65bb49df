package service

import (
	"context"
	"net/url"

	"github.com/deppfellow/datagate/internal/lib/job"
	"github.com/deppfellow/datagate/internal/model"
	"github.com/deppfellow/datagate/internal/query"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// UserStore is the repository surface used by UserService.
type UserStore interface {
	Create(ctx context.Context, input model.CreateUserInput) (query.Record, error)
	List(ctx context.Context, filters []query.FilterCriterion, order *query.OrderSpec) (query.RecordSet, error)
	GetOne(ctx context.Context, field, value string) (query.Record, error)
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// UserService implements the user routes.
type UserService struct {
	store  UserStore
	jobs   TaskEnqueuer
	logger *zerolog.Logger
}

func NewUserService(store UserStore, jobs TaskEnqueuer, logger *zerolog.Logger) *UserService {
	return &UserService{store: store, jobs: jobs, logger: logger}
}

// CreateUser stores a user and queues its welcome email. A queueing failure
// is logged but does not fail the request: the user already exists.
func (s *UserService) CreateUser(ctx context.Context, input model.CreateUserInput) (query.Record, error) {
	record, err := s.store.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	task, err := job.NewWelcomeEmailTask(input.Email, input.Name)
	if err == nil {
		_, err = s.jobs.EnqueueContext(ctx, task)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("task", job.TaskWelcome).Msg("failed to enqueue welcome email")
	}

	return record, nil
}

// ListUsers treats every query parameter except order_by and direction as
// an equality filter. An empty order_by means no ordering.
func (s *UserService) ListUsers(ctx context.Context, params url.Values) (query.RecordSet, error) {
	filters := query.FiltersFromValues(params)
	order := query.NewOrderSpec(params.Get(query.OrderByParam), params.Get(query.DirectionParam))

	return s.store.List(ctx, filters, order)
}

// GetUser returns the first user whose field equals value.
func (s *UserService) GetUser(ctx context.Context, field, value string) (query.Record, error) {
	return s.store.GetOne(ctx, field, value)
}
