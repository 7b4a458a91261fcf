package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingSetting = errors.New("missing required setting")

type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`

	// Server
	Port            int           `mapstructure:"PORT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis
	RedisURL string        `mapstructure:"REDIS_URL"`
	CacheTTL time.Duration `mapstructure:"CACHE_TTL"`

	// RAWG
	RAWGAPIKey  string        `mapstructure:"RAWG_API_KEY"`
	RAWGBaseURL string        `mapstructure:"RAWG_BASE_URL"`
	RAWGTimeout time.Duration `mapstructure:"RAWG_TIMEOUT"`

	// Client
	CatalogURL     string        `mapstructure:"CATALOG_URL"`
	CatalogTimeout time.Duration `mapstructure:"CATALOG_TIMEOUT"`
	StateFile      string        `mapstructure:"STATE_FILE"`
	UpcomingDays   int           `mapstructure:"UPCOMING_DAYS"`
	PageSize       int           `mapstructure:"PAGE_SIZE"`

	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"ENVIRONMENT":      "development",
	"PORT":             8001,
	"SHUTDOWN_TIMEOUT": time.Second * 30,
	"DATABASE_URL":     "",
	"REDIS_URL":        "",
	"CACHE_TTL":        time.Minute * 10,
	"RAWG_API_KEY":     "",
	"RAWG_BASE_URL":    "https://api.rawg.io/api",
	"RAWG_TIMEOUT":     time.Second * 30,
	"CATALOG_URL":      "http://localhost:8001",
	"CATALOG_TIMEOUT":  time.Second * 10,
	"STATE_FILE":       ".gametracker.json",
	"UPCOMING_DAYS":    365,
	"PAGE_SIZE":        20,
	"LOG_LEVEL":        "info",
	"LOG_FORMAT":       "text",
}

// Load reads config.yaml from the working directory or ./config if present,
// then lets environment variables override it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables take precedence
	v.AutomaticEnv()

	// Every key needs a default so Unmarshal sees env-only values
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK if we're using env vars
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return config, nil
}

// ValidateServer checks the settings the catalog server can't start without
func (c *Config) ValidateServer() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("%w: DATABASE_URL", ErrMissingSetting)
	}
	if c.RAWGAPIKey == "" {
		return fmt.Errorf("%w: RAWG_API_KEY", ErrMissingSetting)
	}
	if c.Port <= 0 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	return nil
}

// ValidateClient checks the settings the CLI needs to reach a catalog
func (c *Config) ValidateClient(offline bool) error {
	if !offline && c.CatalogURL == "" {
		return fmt.Errorf("%w: CATALOG_URL", ErrMissingSetting)
	}
	if c.StateFile == "" {
		return fmt.Errorf("%w: STATE_FILE", ErrMissingSetting)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LoggerFormat is the log format to use. Production always logs JSON.
func (c *Config) LoggerFormat() string {
	if c.IsProduction() {
		return "json"
	}
	return c.LogFormat
}
