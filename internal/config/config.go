package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Odds feed API
	OddsAPIKey     string        `envconfig:"ODDS_API_KEY" required:"true"`
	OddsBaseURL    string        `envconfig:"ODDS_BASE_URL" default:"https://api.the-odds-api.com/v4"`
	OddsSportKey   string        `envconfig:"ODDS_SPORT_KEY" default:"americanfootball_nfl"`
	OddsAPITimeout time.Duration `envconfig:"ODDS_API_TIMEOUT" default:"30s"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"pickpool"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"pickpool_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// HTTP API
	APIPort int `envconfig:"API_PORT" default:"8080"`

	// Scheduler
	EnableScheduler     bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	InitialSyncEnabled  bool   `envconfig:"INITIAL_SYNC_ENABLED" default:"true"`
	OddsSyncCron        string `envconfig:"ODDS_SYNC_CRON" default:"0 * * * *"`
	GradingPollInterval int    `envconfig:"GRADING_POLL_INTERVAL" default:"300"`

	// Caching TTL (in seconds)
	CacheTTLTeams int `envconfig:"CACHE_TTL_TEAMS" default:"86400"` // 24 hours

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.OddsAPIKey == "" {
		return fmt.Errorf("ODDS_API_KEY is required")
	}

	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if c.GradingPollInterval <= 0 {
		return fmt.Errorf("GRADING_POLL_INTERVAL must be positive")
	}

	return nil
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
