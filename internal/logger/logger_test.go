package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/deppfellow/datagate/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerService_DisabledWithoutLicense(t *testing.T) {
	service, err := NewLoggerService(config.DefaultObservabilityConfig())
	require.NoError(t, err)

	assert.Nil(t, service.GetApplication())
	assert.NotPanics(t, service.Shutdown)
}

func TestNilLoggerService(t *testing.T) {
	var service *LoggerService
	assert.Nil(t, service.GetApplication())
	assert.NotPanics(t, service.Shutdown)
}

func TestNewLogger_JSONFields(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	log := newLogger(cfg, nil, &buf)

	log.Info().Msg("dropped")
	log.Warn().Str("table", "users").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, config.ServiceName, entry["service"])
	assert.Equal(t, "production", entry["environment"])
	assert.Equal(t, "users", entry["table"])
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Format = "console"

	var buf bytes.Buffer
	log := newLogger(cfg, nil, &buf)
	log.Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestWithTraceContext_NilTransaction(t *testing.T) {
	log := zerolog.Nop()
	assert.Equal(t, log, WithTraceContext(log, nil))
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	assert.Equal(t, tracelog.LogLevelDebug, GetPgxTraceLogLevel(zerolog.DebugLevel))
	assert.Equal(t, tracelog.LogLevelInfo, GetPgxTraceLogLevel(zerolog.InfoLevel))
	assert.Equal(t, tracelog.LogLevelWarn, GetPgxTraceLogLevel(zerolog.WarnLevel))
	assert.Equal(t, tracelog.LogLevelError, GetPgxTraceLogLevel(zerolog.ErrorLevel))
	assert.Equal(t, tracelog.LogLevelNone, GetPgxTraceLogLevel(zerolog.Disabled))
}

func TestFormatSQLFieldValue(t *testing.T) {
	long := strings.Repeat("x", maxLoggedValueLen+10)
	assert.Equal(t, strings.Repeat("x", maxLoggedValueLen)+"...", formatSQLFieldValue(long))
	assert.Equal(t, "short", formatSQLFieldValue("short"))
	assert.Equal(t, "\n{\n  \"a\": 1\n}", formatSQLFieldValue([]byte(`{"a":1}`)))
	assert.Equal(t, "not json", formatSQLFieldValue([]byte("not json")))
	assert.Equal(t, "42", formatSQLFieldValue(42))
}
