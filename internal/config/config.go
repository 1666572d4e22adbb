package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/omarantar7/dentalcare-admin/pkg/config"
)

const defaultCookieSecret = "your-secret-key-change-in-production"

// Config holds all configuration for the admin gateway.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"ADMIN_HTTP_PORT" envDefault:"8080"`

	// Clinic backend API
	ClinicAPIURL     string        `env:"CLINIC_API_URL" envDefault:"http://localhost:8000/api"`
	ClinicAPITimeout time.Duration `env:"CLINIC_API_TIMEOUT" envDefault:"15s"`

	// Auth verification
	VerifyTimeout time.Duration `env:"AUTH_VERIFY_TIMEOUT" envDefault:"10s"`

	// Browser scope cookie
	ScopeCookieName   string        `env:"SCOPE_COOKIE_NAME" envDefault:"dc_scope"`
	ScopeCookieSecret string        `env:"SCOPE_COOKIE_SECRET" envDefault:"your-secret-key-change-in-production"`
	ScopeTTL          time.Duration `env:"SCOPE_TTL" envDefault:"12h"`
	CookieSecure      bool          `env:"COOKIE_SECURE" envDefault:"false"`

	// Session storage backend: memory or redis
	SessionBackend string `env:"SESSION_BACKEND" envDefault:"memory"`
	RedisHost      string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort      int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword  string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`

	// Rate limiting for the login endpoint
	LoginRateLimitRPS   int `env:"LOGIN_RATE_LIMIT_RPS" envDefault:"5"`
	LoginRateLimitBurst int `env:"LOGIN_RATE_LIMIT_BURST" envDefault:"10"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string  `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load admin config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.Environment != "development" && c.ScopeCookieSecret == defaultCookieSecret {
		return fmt.Errorf("SCOPE_COOKIE_SECRET must be changed from default value in %s environment", c.Environment)
	}
	if c.SessionBackend != "memory" && c.SessionBackend != "redis" {
		return fmt.Errorf("SESSION_BACKEND must be memory or redis, got %q", c.SessionBackend)
	}
	if c.VerifyTimeout <= 0 {
		return fmt.Errorf("AUTH_VERIFY_TIMEOUT must be positive")
	}
	return nil
}
