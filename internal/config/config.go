// Package config loads the datagate runtime configuration.
//
// Values come from the process environment (a `.env` file is autoloaded
// when present). Every variable is prefixed with DATAGATE_ and nested keys
// use "." as the delimiter, so DATAGATE_DATABASE.HOST maps to
// Config.Database.Host.
//
// Responsibilities:
//   - Map env vars into typed config blocks.
//   - Fill optional blocks and knobs with defaults.
//   - Validate the result so the process fails fast on bad config.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Loads `.env` into the process environment before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every datagate environment variable carries.
const EnvPrefix = "DATAGATE_"

// ServiceName tags logs, traces and metrics emitted by this process.
const ServiceName = "datagate"

// Config is the root configuration object.
//
// Observability is a pointer so callers building a Config by hand may leave
// it out; LoadConfig always populates it.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Storage       StorageConfig        `koanf:"storage"`
	Integration   IntegrationConfig    `koanf:"integration"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary describes the runtime environment ("local", "development",
// "production", ...).
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups the HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`
}

// DatabaseConfig holds the PostgreSQL connection parameters and pool tuning.
// Lifetimes are in seconds.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required,oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"min=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"min=0"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"min=0"`
}

// DSN renders the postgres:// URL used by both the pool and the migrator.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		c.User,
		url.QueryEscape(c.Password),
		net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		c.Name,
		c.SSLMode,
	)
}

// RedisConfig is the address ("host:port") of the Redis instance backing the
// job queue.
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// StorageConfig configures the S3-compatible object store used for presigned
// video URLs. An empty Endpoint disables the feature.
type StorageConfig struct {
	Endpoint  string        `koanf:"endpoint"`
	AccessKey string        `koanf:"access_key" validate:"required_with=Endpoint"`
	SecretKey string        `koanf:"secret_key" validate:"required_with=Endpoint"`
	Bucket    string        `koanf:"bucket" validate:"required_with=Endpoint"`
	Region    string        `koanf:"region"`
	UseSSL    bool          `koanf:"use_ssl"`
	URLExpiry time.Duration `koanf:"url_expiry" validate:"min=0,max=168h"`
}

// Enabled reports whether an object store endpoint is configured.
func (c StorageConfig) Enabled() bool {
	return c.Endpoint != ""
}

// IntegrationConfig holds credentials and endpoints of third-party services.
type IntegrationConfig struct {
	ResendAPIKey string        `koanf:"resend_api_key"`
	EmailFrom    string        `koanf:"email_from"`
	ChatURL      string        `koanf:"chat_url" validate:"omitempty,url"`
	ChatTimeout  time.Duration `koanf:"chat_timeout" validate:"min=0"`
}

// RateLimitConfig bounds the request rate per client IP.
// A zero RequestsPerSecond disables the limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"min=0"`
	Burst             int           `koanf:"burst" validate:"min=0"`
	ExpiresIn         time.Duration `koanf:"expires_in" validate:"min=0"`
}

// defaults returns a Config carrying every optional knob's default value.
// Environment values are unmarshalled on top of it.
func defaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 3600,
			ConnMaxIdleTime: 300,
		},
		Storage: StorageConfig{
			Region:    "us-east-1",
			URLExpiry: time.Hour,
		},
		Integration: IntegrationConfig{
			ChatURL:     "http://python:8003",
			ChatTimeout: 30 * time.Second,
			EmailFrom:   "datagate <onboarding@resend.dev>",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
			ExpiresIn:         3 * time.Minute,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig reads DATAGATE_* variables from the environment, applies
// defaults, validates, and returns the resulting configuration.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	if cfg.Observability == nil {
		cfg.Observability = DefaultObservabilityConfig()
	}
	cfg.Observability.ServiceName = ServiceName
	cfg.Observability.Environment = cfg.Primary.Env

	if err := cfg.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return cfg, nil
}
