// Package server holds the application container: configuration, loggers and
// every long-lived client the handlers depend on, plus the http.Server and
// its graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/datagate/internal/config"
	"github.com/deppfellow/datagate/internal/database"
	"github.com/deppfellow/datagate/internal/lib/chat"
	"github.com/deppfellow/datagate/internal/lib/job"
	"github.com/deppfellow/datagate/internal/lib/storage"
	"github.com/deppfellow/datagate/internal/metrics"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/datagate/internal/logger"
)

// redisPingTimeout bounds the startup Redis check.
const redisPingTimeout = 5 * time.Second

type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService
	DB            *database.Database
	Redis         *redis.Client
	Job           *job.JobService
	Storage       *storage.Client
	Chat          *chat.Client
	Metrics       *metrics.Collector
	httpServer    *http.Server
}

// New connects every backing service. A failing Redis ping is logged and
// tolerated: only the welcome email queue depends on it.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(ctx, cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})
	if loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Error().Err(err).Msg("failed to connect to Redis, continuing without Redis")
	}

	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		db.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	if !store.Enabled() {
		logger.Warn().Msg("object storage endpoint not set, signed URLs are disabled")
	}

	jobService := job.NewJobService(logger, cfg)
	if err := jobService.Start(); err != nil {
		db.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to start job server: %w", err)
	}

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Redis:         redisClient,
		Job:           jobService,
		Storage:       store,
		Chat:          chat.NewClient(cfg.Integration.ChatURL, cfg.Integration.ChatTimeout),
		Metrics:       metrics.NewCollector(),
	}, nil
}

// SetupHTTPServer installs handler behind an http.Server configured from
// the server block. Timeouts are in seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start serves HTTP until Shutdown is called. It returns nil on a clean
// shutdown.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then stops the job server and closes
// the database and Redis clients. Every step runs even if an earlier one
// failed; the errors are joined.
func (s *Server) Shutdown(ctx context.Context) error {
	var errList []error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errList = append(errList, fmt.Errorf("failed to shutdown HTTP server: %w", err))
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if err := s.DB.Close(); err != nil {
		errList = append(errList, fmt.Errorf("failed to close database connection: %w", err))
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	return errors.Join(errList...)
}
