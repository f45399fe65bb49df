package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/datagate/internal/config"
	"github.com/deppfellow/datagate/internal/database"
	"github.com/deppfellow/datagate/internal/handler"
	"github.com/deppfellow/datagate/internal/logger"
	"github.com/deppfellow/datagate/internal/repository"
	"github.com/deppfellow/datagate/internal/router"
	"github.com/deppfellow/datagate/internal/server"
	"github.com/deppfellow/datagate/internal/service"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 30 * time.Second

func main() {
	bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to start New Relic")
	}

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, &log, loggerService)
	stop()
	loggerService.Shutdown()

	if err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

// run migrates the schema, wires the server and serves until ctx is done.
func run(ctx context.Context, cfg *config.Config, log *zerolog.Logger, loggerService *logger.LoggerService) error {
	if err := database.Migrate(ctx, log, cfg); err != nil {
		return err
	}

	srv, err := server.New(ctx, cfg, log, loggerService)
	if err != nil {
		return err
	}

	repos := repository.NewRepositories(srv)
	services := service.NewServices(srv, repos)
	handlers := handler.NewHandlers(srv, services)

	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err = <-serveErr:
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = errors.Join(err, srv.Shutdown(shutdownCtx))
	if err == nil {
		log.Info().Msg("server exited properly")
	}
	return err
}
