package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for owner authentication. Authentication is
// disabled when no secret is configured.
type Config struct {
	JWTSecretKey string `env:"AUTH_JWT_SECRET"`
	// JWTIssuer, when set, must match the iss claim of presented tokens.
	JWTIssuer      string        `env:"AUTH_JWT_ISSUER"`
	AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"15m"`
	// Leeway tolerates clock skew between the token issuer and this service.
	Leeway time.Duration `env:"AUTH_JWT_LEEWAY" envDefault:"30s"`
}

// Enabled reports whether owner routes require a bearer token.
func (c *Config) Enabled() bool {
	return c.JWTSecretKey != ""
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load auth configuration from environment: " + err.Error())
	}

	if cfg.Enabled() && len(cfg.JWTSecretKey) < 32 {
		return nil, errors.New("AUTH_JWT_SECRET must be at least 32 characters long")
	}
	if cfg.AccessTokenTTL <= 0 {
		return nil, errors.New("AUTH_ACCESS_TOKEN_TTL must be positive")
	}
	if cfg.Leeway < 0 {
		cfg.Leeway = 0
	}
	return cfg, nil
}
