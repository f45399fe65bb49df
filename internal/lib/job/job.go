// Package job runs background work on asynq, a Redis-backed task queue.
//
// The API process enqueues tasks through JobService.Client; the same process
// also runs the worker server that consumes them.
package job

import (
	"context"

	"github.com/deppfellow/datagate/internal/config"
	"github.com/deppfellow/datagate/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Queue names and their worker share.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// WelcomeMailer sends the welcome email handled by TaskWelcome.
type WelcomeMailer interface {
	SendWelcomeEmail(ctx context.Context, to, name string) error
}

// JobService holds the asynq producer and worker server.
type JobService struct {
	Client *asynq.Client
	server *asynq.Server
	mailer WelcomeMailer
	logger *zerolog.Logger
}

// NewJobService connects both sides of the queue to the configured Redis.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			QueueCritical: 6,
			QueueDefault:  3,
			QueueLow:      1,
		},
		Logger:   newAsynqLogger(logger),
		LogLevel: asynq.WarnLevel,
	})

	return &JobService{
		Client: asynq.NewClient(redisOpt),
		server: server,
		mailer: email.NewClient(cfg, logger),
		logger: logger,
	}
}

// Mux routes task types to their handlers.
func (j *JobService) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)
	return mux
}

// Start launches the worker server in the background.
func (j *JobService) Start() error {
	j.logger.Info().Msg("starting background job server")
	return j.server.Start(j.Mux())
}

// Stop waits for in-flight tasks and closes the Redis connections.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("closing job client")
	}
}
