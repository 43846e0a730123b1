package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all library configuration.
type Config struct {
	HTTP      HTTPConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Logging   LogConfig
}

// HTTPConfig holds HTTP session configuration.
type HTTPConfig struct {
	Timeout      time.Duration `envconfig:"URLKIT_HTTP_TIMEOUT" default:"30s"`
	RetryMax     int           `envconfig:"URLKIT_HTTP_RETRY_MAX" default:"3"`
	RetryWaitMin time.Duration `envconfig:"URLKIT_HTTP_RETRY_WAIT_MIN" default:"1s"`
	RetryWaitMax time.Duration `envconfig:"URLKIT_HTTP_RETRY_WAIT_MAX" default:"30s"`
	MaxRedirects int           `envconfig:"URLKIT_HTTP_MAX_REDIRECTS" default:"10"`
	UserAgent    string        `envconfig:"URLKIT_HTTP_USER_AGENT" default:"urlkit/1.0"`
}

// CacheConfig holds on-disk response cache configuration.
type CacheConfig struct {
	Dir    string        `envconfig:"URLKIT_CACHE_DIR" default:""`
	MaxAge time.Duration `envconfig:"URLKIT_CACHE_MAX_AGE" default:"24h"`
}

// RateLimitConfig holds outbound rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond float64 `envconfig:"URLKIT_RATE_LIMIT_RPS" default:"0"`
	Burst             int     `envconfig:"URLKIT_RATE_LIMIT_BURST" default:"1"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"URLKIT_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"URLKIT_LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			RetryMax:     3,
			RetryWaitMin: 1 * time.Second,
			RetryWaitMax: 30 * time.Second,
			MaxRedirects: 10,
			UserAgent:    "urlkit/1.0",
		},
		Cache: CacheConfig{
			MaxAge: 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 0,
			Burst:             1,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
