package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the application configuration. It is parsed once at startup
// and treated as immutable afterwards.
type Config struct {
	Env     string `env:"APP_ENV"      envDefault:"development"`
	Port    int    `env:"PORT"         envDefault:"3000"`
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`

	DatabaseURI  string `env:"DATABASE_URI"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"flow-tracker"`

	JWTSecret          string        `env:"JWT_SECRET"`
	JWTIssuer          string        `env:"JWT_ISSUER"            envDefault:"flow-tracker-api"`
	JWTExpiresIn       time.Duration `env:"JWT_EXPIRES_IN"        envDefault:"2160h"`
	JWTCookieExpiresIn time.Duration `env:"JWT_COOKIE_EXPIRES_IN" envDefault:"2160h"`

	PasswordResetExpiresIn time.Duration `env:"PASSWORD_RESET_EXPIRES_IN" envDefault:"10m"`

	UploadDir string `env:"UPLOAD_DIR" envDefault:"public/img/users"`

	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW"   envDefault:"1h"`
}

// New creates a Config instance from environment variables.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// IsDevelopment reports whether the app runs in development mode. Error
// responses are verbose only in this mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.DatabaseURI == "" {
		return fmt.Errorf("missing DATABASE_URI environment variable")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("missing JWT_SECRET environment variable")
	}

	return nil
}
