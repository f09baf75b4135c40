package leads

import (
	"context"
	"fmt"

	httpadapter "github.com/putuyoga/privyr-lead/internal/leads/adapter/http"
	"github.com/putuyoga/privyr-lead/internal/leads/adapter/cache"
	"github.com/putuyoga/privyr-lead/internal/leads/config"
	"github.com/putuyoga/privyr-lead/internal/leads/domain/repository"
	"github.com/putuyoga/privyr-lead/internal/leads/domain/service"
	"github.com/putuyoga/privyr-lead/internal/leads/usecase"
	"github.com/putuyoga/privyr-lead/internal/shared/eventbus"
	"github.com/putuyoga/privyr-lead/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// LeadsModule bundles lead capture, lead listing and webhook management.
type LeadsModule struct {
	Config           *config.LeadsConfig
	Store            repository.LeadStore
	Cache            repository.WebhookCache
	EventBus         eventbus.EventBusInterface
	IngestionUsecase usecase.IngestionUsecaseInterface
	LeadQueryUsecase usecase.LeadQueryUsecaseInterface
	WebhookUsecase   usecase.WebhookUsecaseInterface
	Logger           logger.Logger

	leadHandler   *httpadapter.LeadHandler
	streamHandler *httpadapter.LeadStreamHandler
	redisCache    *cache.RedisWebhookCache
}

// NewLeadsModule wires the leads module on top of store. redisClient may be
// nil, in which case webhook tokens are always resolved through the store.
func NewLeadsModule(
	cfg *config.LeadsConfig,
	store repository.LeadStore,
	redisClient *redis.Client,
	log logger.Logger,
) (*LeadsModule, error) {
	if cfg == nil {
		return nil, fmt.Errorf("leads config is required")
	}
	if store == nil {
		return nil, fmt.Errorf("lead store is required")
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	log.Info("Initializing Leads Module...")

	module := &LeadsModule{
		Config:   cfg,
		Store:    store,
		EventBus: eventbus.NewEventBus(log),
		Logger:   log,
	}

	if redisClient != nil {
		module.redisCache = cache.NewRedisWebhookCache(redisClient, cfg.Redis.KeyPrefix, cfg.Redis.CacheTTL)
		module.Cache = module.redisCache
		log.Info("Redis webhook cache enabled")
	}

	resolver := usecase.NewWebhookResolver(store, module.Cache, log)
	module.IngestionUsecase = usecase.NewIngestionUsecase(store, resolver, service.NewLeadValidator(), module.EventBus, log)
	module.LeadQueryUsecase = usecase.NewLeadQueryUsecase(store, cfg.DefaultPageSize, log)
	module.WebhookUsecase = usecase.NewWebhookUsecase(
		store, service.NewNanoIDGenerator(), module.Cache, cfg.WebhookIDRetries, log,
	)

	module.leadHandler = httpadapter.NewLeadHandler(
		module.IngestionUsecase, module.LeadQueryUsecase, module.WebhookUsecase, log,
	)
	module.streamHandler = httpadapter.NewLeadStreamHandler(module.EventBus, cfg.StreamBuffer, log)

	log.Info("Leads Module initialized successfully")
	return module, nil
}

// RegisterRoutes mounts the module under the configured API prefix. Owner
// routes pass through ownerGuard when it is not nil.
func (m *LeadsModule) RegisterRoutes(router fiber.Router, ownerGuard fiber.Handler) {
	api := router.Group(m.Config.APIPrefix)
	m.streamHandler.RegisterRoutes(api, ownerGuard)
	m.leadHandler.RegisterRoutes(api, ownerGuard)
	m.Logger.Info("Leads routes registered under " + m.Config.APIPrefix)
}

// HealthCheck pings the lead store and, when enabled, the webhook cache.
func (m *LeadsModule) HealthCheck(ctx context.Context) error {
	if err := m.Store.Ping(ctx); err != nil {
		return fmt.Errorf("lead store health check failed: %w", err)
	}
	if m.redisCache != nil {
		if err := m.redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("redis health check failed: %w", err)
		}
	}
	return nil
}

// Stop releases module resources. Connections are owned by the caller.
func (m *LeadsModule) Stop() {
	m.Logger.Info("Stopping Leads Module...")
}
