package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the rate service, read from the
// environment with defaults matching the production deployment.
type Config struct {
	// Server
	HTTPPort int `env:"HTTP_PORT" env-default:"8080"`

	// Environment
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`

	// Redis (pair storage). Empty address disables Redis and falls back to
	// the in-memory pair store.
	RedisAddr string `env:"REDIS_ADDR" env-default:""`
	RedisPass string `env:"REDIS_PASSWORD" env-default:""`
	RedisDB   int    `env:"REDIS_DB" env-default:"0"`

	// Upstream rate providers
	FrankfurterURL     string `env:"FRANKFURTER_URL" env-default:"https://api.frankfurter.app"`
	NBUURL             string `env:"NBU_URL" env-default:"https://bank.gov.ua/NBUStatService/v1/statdirectory/exchange"`
	ExchangeRateAPIURL string `env:"EXCHANGERATE_API_URL" env-default:"https://api.exchangerate-api.com/v4/latest"`

	// HTTP fetcher
	RequestTimeoutSec int     `env:"REQUEST_TIMEOUT" env-default:"10"`
	MaxRetries        int     `env:"MAX_RETRIES" env-default:"3"`
	RetryDelaySec     float64 `env:"RETRY_DELAY" env-default:"1.0"`

	// Date-proximity fallback
	FallbackEnabled bool `env:"FALLBACK_ENABLED" env-default:"true"`
	MaxFallbackDays int  `env:"MAX_FALLBACK_DAYS" env-default:"7"`

	// Rate cache
	CacheTTLHours float64 `env:"CACHE_TTL_HOURS" env-default:"1"`

	// Metrics
	MetricsEnabled  bool   `env:"METRICS_ENABLED" env-default:"true"`
	MetricsEndpoint string `env:"METRICS_ENDPOINT" env-default:"/metrics"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	return &cfg, nil
}

// RequestTimeout returns the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// RetryDelay returns the base delay before the first retry.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySec * float64(time.Second))
}

// CacheTTL returns the rate cache time-to-live.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours * float64(time.Hour))
}

// UseRedis reports whether a Redis pair store is configured.
func (c *Config) UseRedis() bool {
	return c.RedisAddr != ""
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
