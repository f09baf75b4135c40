package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	StoreDriverMongoDB = "mongodb"
	StoreDriverMemory  = "memory"
)

// RedisConfig holds the connection settings of the optional webhook cache.
type RedisConfig struct {
	Enabled         bool          `env:"REDIS_ENABLED" envDefault:"false"`
	Host            string        `env:"REDIS_HOST" envDefault:"localhost"`
	Port            string        `env:"REDIS_PORT" envDefault:"6379"`
	Password        string        `env:"REDIS_PASSWORD"`
	Database        int           `env:"REDIS_DB" envDefault:"0"`
	MaxRetries      int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	PoolSize        int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns    int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	EnableTLS       bool          `env:"REDIS_TLS" envDefault:"false"`
	ConnMaxIdleTime string        `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"30m"`
	ConnMaxLifetime string        `env:"REDIS_CONN_MAX_LIFETIME" envDefault:"1h"`
	CacheTTL        time.Duration `env:"REDIS_CACHE_TTL" envDefault:"10m"`
	KeyPrefix       string        `env:"REDIS_KEY_PREFIX" envDefault:"privyr-lead:"`
}

// GetAddr returns host:port.
func (c *RedisConfig) GetAddr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// LeadsConfig holds all configuration for the leads module.
type LeadsConfig struct {
	StoreDriver      string `env:"STORE_DRIVER" envDefault:"mongodb"`
	MongoDBURI       string `env:"MONGODB_URI"`
	DatabaseName     string `env:"MONGODB_DATABASE" envDefault:"privyr_lead"`
	APIPrefix        string `env:"API_PREFIX" envDefault:"/api/v1"`
	DefaultPageSize  int    `env:"DEFAULT_PAGE_SIZE" envDefault:"4"`
	WebhookIDRetries int    `env:"WEBHOOK_ID_RETRIES" envDefault:"3"`
	// StreamBuffer is the per-connection backlog of the live lead feed.
	StreamBuffer int         `env:"STREAM_BUFFER" envDefault:"16"`
	Redis        RedisConfig
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*LeadsConfig, error) {
	cfg := &LeadsConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load leads configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Redis); err != nil {
		return nil, errors.New("failed to load redis configuration from environment: " + err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no sensible fallback.
func (c *LeadsConfig) Validate() error {
	switch c.StoreDriver {
	case StoreDriverMongoDB:
		if c.MongoDBURI == "" {
			return errors.New("MONGODB_URI environment variable is not set")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverMongoDB, StoreDriverMemory, c.StoreDriver)
	}
	if c.DefaultPageSize < 1 {
		return errors.New("DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.WebhookIDRetries < 1 {
		return errors.New("WEBHOOK_ID_RETRIES must be at least 1")
	}
	if c.StreamBuffer < 1 {
		c.StreamBuffer = 16
	}
	if c.Redis.Enabled && c.Redis.CacheTTL <= 0 {
		return errors.New("REDIS_CACHE_TTL must be positive")
	}
	return nil
}

// DefaultLeadsConfig returns a LeadsConfig with default values.
func DefaultLeadsConfig() *LeadsConfig {
	return &LeadsConfig{
		StoreDriver:      StoreDriverMemory,
		MongoDBURI:       "mongodb://localhost:27017",
		DatabaseName:     "privyr_lead",
		APIPrefix:        "/api/v1",
		DefaultPageSize:  4,
		WebhookIDRetries: 3,
		StreamBuffer:     16,
		Redis: RedisConfig{
			Host:            "localhost",
			Port:            "6379",
			MaxRetries:      3,
			PoolSize:        10,
			MinIdleConns:    2,
			ConnMaxIdleTime: "30m",
			ConnMaxLifetime: "1h",
			CacheTTL:        10 * time.Minute,
			KeyPrefix:       "privyr-lead:",
		},
	}
}
