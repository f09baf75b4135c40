package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	authconfig "github.com/putuyoga/privyr-lead/internal/auth/config"
	"github.com/putuyoga/privyr-lead/internal/di"
	leadsconfig "github.com/putuyoga/privyr-lead/internal/leads/config"
	"github.com/putuyoga/privyr-lead/internal/shared/logger"
	"github.com/putuyoga/privyr-lead/internal/shared/response"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
	Port string `env:"SERVER_PORT" envDefault:"3000"`
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}
	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	// LOG_DRIVER, LOG_LEVEL, LOG_FORMAT and ENVIRONMENT select the backend.
	appLogger := logger.NewLogger()
	appLogger.Info("Privyr Lead - Starting Application...")

	leadsCfg, err := leadsconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load leads configuration: %v", err)
	}
	authCfg, err := authconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load auth configuration: %v", err)
	}

	container := di.NewContainer(appLogger)
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := container.InitializeStore(ctx, leadsCfg); err != nil {
		appLogger.Fatalf("Failed to initialize lead store: %v", err)
	}
	if err := container.InitializeAuth(authCfg); err != nil {
		appLogger.Fatalf("Failed to initialize Auth module: %v", err)
	}
	if err := container.InitializeLeads(); err != nil {
		appLogger.Fatalf("Failed to initialize Leads module: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Privyr Lead API v1.0",
		Immutable:    true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: response.ErrorHandler(appLogger),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(response.RequestID(), response.RequestContext())

	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.Errorf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "UNHEALTHY",
				"message": "One or more services are unhealthy",
			})
		}

		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"message":   "Privyr Lead API is running",
			"timestamp": time.Now().UTC(),
			"store":     leadsCfg.StoreDriver,
			"cache":     container.CacheEnabled(),
		})
	})

	leadsModule := container.GetLeadsModule()
	leadsModule.RegisterRoutes(app, container.GetAuthModule().OwnerGuard("userId"))

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Infof("All modules initialized. Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			appLogger.Errorf("Server failed to start: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}

	appLogger.Info("Application stopped gracefully.")
}
