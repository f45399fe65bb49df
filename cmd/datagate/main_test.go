package main

import (
	"context"
	"testing"

	"github.com/deppfellow/datagate/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_StopsWhenMigrationsCannotConnect(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Host:    "127.0.0.1",
			Port:    5432,
			User:    "datagate",
			Name:    "datagate",
			SSLMode: "disable",
		},
	}
	log := zerolog.Nop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, cfg, &log, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connecting for migrations")
}
