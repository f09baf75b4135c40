package di

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/putuyoga/privyr-lead/internal/auth"
	authconfig "github.com/putuyoga/privyr-lead/internal/auth/config"
	"github.com/putuyoga/privyr-lead/internal/leads"
	"github.com/putuyoga/privyr-lead/internal/leads/adapter/persistence/memory"
	mongopersistence "github.com/putuyoga/privyr-lead/internal/leads/adapter/persistence/mongodb"
	leadsconfig "github.com/putuyoga/privyr-lead/internal/leads/config"
	"github.com/putuyoga/privyr-lead/internal/leads/domain/repository"
	"github.com/putuyoga/privyr-lead/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Container owns the application's connections and modules and tears them
// down in reverse order.
type Container struct {
	mu sync.RWMutex
	// Module instances
	AuthModule  *auth.AuthModule
	LeadsModule *leads.LeadsModule
	// Connections
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	LeadStore   repository.LeadStore
	// Configuration
	LeadsConfig *leadsconfig.LeadsConfig
	AuthConfig  *authconfig.Config
	Logger      logger.Logger
}

// NewContainer creates an empty container.
func NewContainer(log logger.Logger) *Container {
	if log == nil {
		log = logger.NewLogger()
	}
	return &Container{Logger: log}
}

// InitializeStore opens the lead store selected by cfg.StoreDriver and, when
// enabled, the Redis webhook cache. An unreachable Redis only disables the
// cache.
func (c *Container) InitializeStore(ctx context.Context, cfg *leadsconfig.LeadsConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.LeadsConfig = cfg

	switch cfg.StoreDriver {
	case leadsconfig.StoreDriverMemory:
		c.LeadStore = memory.NewLeadStore()
		c.Logger.Warn("Using in-memory lead store, data is lost on restart")
	case leadsconfig.StoreDriverMongoDB:
		clientOpts := options.Client().
			ApplyURI(cfg.MongoDBURI).
			SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
		client, err := mongo.Connect(ctx, clientOpts)
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return fmt.Errorf("failed to ping MongoDB: %w", err)
		}
		c.MongoClient = client
		c.MongoDB = client.Database(cfg.DatabaseName)

		store, err := mongopersistence.NewLeadStore(ctx, c.MongoDB)
		if err != nil {
			return fmt.Errorf("failed to create MongoDB lead store: %w", err)
		}
		c.LeadStore = store
		c.Logger.Info("MongoDB connection established successfully")
	default:
		return fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cfg.Redis.Enabled {
		client := leadsconfig.NewRedisClient(&cfg.Redis)
		if err := client.Ping(ctx).Err(); err != nil {
			c.Logger.Warnf("Redis unavailable at %s, webhook cache disabled: %v", cfg.Redis.GetAddr(), err)
			_ = client.Close()
		} else {
			c.RedisClient = client
			c.Logger.Info("Redis connection established successfully")
		}
	}
	return nil
}

// InitializeAuth initializes the owner authentication module.
func (c *Container) InitializeAuth(authConfig *authconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.AuthConfig = authConfig
	authModule, err := auth.NewAuthModule(authConfig)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}
	if !authModule.Enabled() {
		c.Logger.Warn("AUTH_JWT_SECRET not set, owner routes are unauthenticated")
	}

	c.AuthModule = authModule
	return nil
}

// InitializeLeads initializes the leads module. The store must be initialized
// first.
func (c *Container) InitializeLeads() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.LeadStore == nil {
		return fmt.Errorf("lead store must be initialized before leads module")
	}

	leadsModule, err := leads.NewLeadsModule(c.LeadsConfig, c.LeadStore, c.RedisClient, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create leads module: %w", err)
	}
	c.LeadsModule = leadsModule
	return nil
}

// GetAuthModule returns the auth module instance
func (c *Container) GetAuthModule() *auth.AuthModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthModule
}

// GetLeadsModule returns the leads module instance
func (c *Container) GetLeadsModule() *leads.LeadsModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.LeadsModule
}

// CacheEnabled reports whether a Redis webhook cache is connected.
func (c *Container) CacheEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.RedisClient != nil
}

// HealthCheck performs health check on all initialized services
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.LeadsModule != nil {
		return c.LeadsModule.HealthCheck(ctx)
	}
	if c.LeadStore != nil {
		if err := c.LeadStore.Ping(ctx); err != nil {
			return fmt.Errorf("lead store health check failed: %w", err)
		}
	}
	return nil
}

// Cleanup stops modules and closes connections in reverse order of
// initialization.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.LeadsModule != nil {
		c.LeadsModule.Stop()
		c.LeadsModule = nil
	}
	c.AuthModule = nil

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
		c.RedisClient = nil
	}

	if c.MongoClient != nil {
		if err := c.MongoClient.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to disconnect MongoDB: %w", err))
		}
		c.MongoClient = nil
		c.MongoDB = nil
	}
	c.LeadStore = nil

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}

// Close gracefully shuts down all services in the container with timeout
func (c *Container) Close() error {
	c.Logger.Info("Closing DI Container resources...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Cleanup(ctx); err != nil {
		c.Logger.Warnf("cleanup errors occurred: %v", err)
		return err
	}

	c.Logger.Info("DI Container resources closed.")
	return nil
}
