// Package database owns the shared PostgreSQL connection pool and the
// embedded schema migrations.
//
// The pool is instrumented with the New Relic pgx tracer when the agent is
// running, and with a zerolog SQL trace logger in the local environment.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/datagate/internal/config"
	loggerConfig "github.com/deppfellow/datagate/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

// PingTimeout bounds the startup connectivity check.
const PingTimeout = 10 * time.Second

// Database wraps the pgx pool shared by every request.
type Database struct {
	Pool *pgxpool.Pool
	log  *zerolog.Logger
}

// queryTracer fans pgx query trace callbacks out to several tracers, since
// ConnConfig only has room for one.
type queryTracer []pgx.QueryTracer

func (qt queryTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range qt {
		ctx = tracer.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (qt queryTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range qt {
		tracer.TraceQueryEnd(ctx, conn, data)
	}
}

// PoolConfig translates the database block of cfg into a pgxpool config,
// including tracers. It does not connect.
func PoolConfig(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	db := cfg.Database
	poolConfig.MaxConns = int32(db.MaxOpenConns)
	poolConfig.MinConns = int32(db.MaxIdleConns)
	poolConfig.MaxConnLifetime = time.Duration(db.ConnMaxLifetime) * time.Second
	poolConfig.MaxConnIdleTime = time.Duration(db.ConnMaxIdleTime) * time.Second

	var tracers queryTracer
	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	// SQL statements and arguments are only echoed locally.
	if cfg.Primary.Env == "local" {
		level := logger.GetLevel()
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(level)),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(level),
		})
	}

	switch len(tracers) {
	case 0:
	case 1:
		poolConfig.ConnConfig.Tracer = tracers[0]
	default:
		poolConfig.ConnConfig.Tracer = tracers
	}

	return poolConfig, nil
}

// New creates the pool and verifies the database is reachable.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	poolConfig, err := PoolConfig(cfg, logger, loggerService)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.Name).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("connected to the database")

	return &Database{Pool: pool, log: logger}, nil
}

// Ping checks connectivity; used by the status endpoint.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close releases every pooled connection.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Close()
	return nil
}
