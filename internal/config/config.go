// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"millstock/internal/infrastructure/storage/postgres"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds runtime configuration for the server.
type Config struct {
	AppAddr            string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout     time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout    time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppShutdownTimeout time.Duration `envconfig:"APP_SHUTDOWN_TIMEOUT" default:"10s"`

	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogDevelopment bool   `envconfig:"LOG_DEVELOPMENT" default:"false"`

	Storage string `envconfig:"STORAGE" default:"postgres"`

	PGDSN      string `envconfig:"PG_DSN"`
	PGMaxConns int32  `envconfig:"PG_MAX_CONNS" default:"20"`
	PGMinConns int32  `envconfig:"PG_MIN_CONNS" default:"2"`

	TxStatementTimeout time.Duration `envconfig:"TX_STATEMENT_TIMEOUT" default:"30s"`
	TxIsolation        string        `envconfig:"TX_ISOLATION" default:"read_committed"`

	// JWTSecret empty disables authentication.
	JWTSecret string `envconfig:"JWT_SECRET"`
	JWTIssuer string `envconfig:"JWT_ISSUER"`

	NumberPadWidth  int    `envconfig:"NUMBER_PAD_WIDTH" default:"3"`
	FloorDefaultUOM string `envconfig:"FLOOR_DEFAULT_UOM" default:"PC"`

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load reads a local .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express as tags.
func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.PGDSN == "" {
			return errors.New("PG_DSN must be provided for postgres storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}

	if _, err := postgres.ParseIsolation(c.TxIsolation); err != nil {
		return err
	}
	if c.PGMaxConns <= 0 || c.PGMinConns < 0 || c.PGMinConns > c.PGMaxConns {
		return fmt.Errorf("invalid pool size: min=%d max=%d", c.PGMinConns, c.PGMaxConns)
	}
	if c.NumberPadWidth <= 0 {
		return fmt.Errorf("NUMBER_PAD_WIDTH must be positive, got %d", c.NumberPadWidth)
	}
	return nil
}

// AuthEnabled reports whether bearer tokens are required.
func (c *Config) AuthEnabled() bool {
	return c != nil && c.JWTSecret != ""
}

// TxOptions builds the transaction defaults for the postgres tx manager.
func (c *Config) TxOptions() postgres.TxOptions {
	opts := postgres.DefaultTxOptions()
	if level, err := postgres.ParseIsolation(c.TxIsolation); err == nil {
		opts.IsolationLevel = level
	}
	opts.StatementTimeout = c.TxStatementTimeout
	return opts
}

// PoolConfig builds the pgx pool settings.
func (c *Config) PoolConfig() postgres.PoolConfig {
	pc := postgres.DefaultPoolConfig(c.PGDSN)
	pc.MaxConns = c.PGMaxConns
	pc.MinConns = c.PGMinConns
	return pc
}
