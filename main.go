package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ecinar/unified-inbox/environments"
	"github.com/ecinar/unified-inbox/handlers"
	"github.com/ecinar/unified-inbox/internal/dispatcher"
	"github.com/ecinar/unified-inbox/internal/repository"
	"github.com/ecinar/unified-inbox/internal/service"
	"github.com/ecinar/unified-inbox/pkg/database"
	"github.com/ecinar/unified-inbox/pkg/logger"
	"github.com/ecinar/unified-inbox/pkg/redis"
	"github.com/ecinar/unified-inbox/pkg/twilio"
	"github.com/ecinar/unified-inbox/pkg/validator"
	"github.com/ecinar/unified-inbox/routes"

	_ "github.com/ecinar/unified-inbox/docs" // swagger docs
)

// @title Unified Inbox API
// @version 1.0
// @description Multi-channel customer messaging backend: SMS/WhatsApp ingestion, scheduled sends, contacts, threads, and notes

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @schemes http https
func main() {
	logger.Init()

	_ = godotenv.Load()

	// Load config
	cfg := environments.Load()

	// Hard-fail if required secrets are missing
	if cfg.Twilio.AuthToken == "" {
		logger.Fatalf("TWILIO_AUTH_TOKEN is required but not set")
	}
	if cfg.Auth.APIKey == "" {
		logger.Fatalf("API_KEY is required but not set")
	}
	if cfg.Auth.CronSecret == "" {
		logger.Fatalf("CRON_SECRET is required but not set")
	}

	logger.Infof("Starting Unified Inbox Service...")

	// Init DB
	db, err := database.NewMySQLDB(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed data
	if os.Getenv("SEED_DATA") == "true" {
		if err := database.SeedTestData(db); err != nil {
			logger.Warnf("Failed to seed test data: %v", err)
		}
	}

	// Init redis
	var redisClient *redis.Client
	redisClient, err = redis.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warnf("Redis not available, dedup caching disabled: %v", err)
		redisClient = nil
	}

	// Initialize provider client
	providerClient := twilio.NewClient(cfg.Twilio)

	// Initialize repositories
	contactRepo := repository.NewContactRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	scheduledRepo := repository.NewScheduledRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	var inboundService *service.InboundService
	if redisClient != nil {
		inboundService = service.NewInboundService(messageRepo, contactRepo, threadRepo, redisClient, cfg.Dispatch)
	} else {
		// A typed-nil cache would defeat the service's nil check.
		inboundService = service.NewInboundService(messageRepo, contactRepo, threadRepo, nil, cfg.Dispatch)
	}
	messageService := service.NewMessageService(messageRepo, scheduledRepo, providerClient, cfg.Dispatch)
	dispatchService := service.NewDispatchService(scheduledRepo, messageRepo, providerClient, cfg.Dispatch)
	contactService := service.NewContactService(contactRepo, threadRepo)
	noteService := service.NewNoteService(noteRepo)
	analyticsService := service.NewAnalyticsService(messageRepo, contactRepo)
	userService := service.NewUserService(userRepo)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize dispatcher
	disp := dispatcher.NewDispatcher(dispatchService, cfg.Dispatch.SendInterval)
	disp.SetAlerting(cfg.Alert.WebhookURL, cfg.Alert.IterationCount)

	// Initialize handlers
	h := routes.Handlers{
		Health:    handlers.NewHealthHandler(db, redisClient),
		Webhook:   handlers.NewWebhookHandler(inboundService, cfg.Twilio),
		Message:   handlers.NewMessageHandler(messageService),
		Scheduled: handlers.NewScheduledHandler(messageService),
		Dispatch:  handlers.NewDispatchHandler(disp, ctx),
		Contact:   handlers.NewContactHandler(contactService),
		Note:      handlers.NewNoteHandler(noteService),
		Analytics: handlers.NewAnalyticsHandler(analyticsService),
		User:      handlers.NewUserHandler(userService),
	}

	// Auto-start dispatcher
	if os.Getenv("AUTO_START_DISPATCHER") != "false" {
		logger.Infof("Auto-starting dispatcher...")
		if err := disp.Start(ctx); err != nil {
			logger.Warnf("Failed to auto-start dispatcher: %v", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"x-inbox-auth-key",
			"x-user-role",
			"x-user-id",
		},
	}))

	// Setup routes
	routes.RegisterRoutes(e, h, cfg)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Infof("Server starting on http://localhost%s", addr)
		logger.Infof("Swagger docs available at http://localhost%s/swagger/index.html", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down gracefully...")

	// Cancel context to signal all goroutines to stop
	cancel()

	// Stop dispatcher first (with timeout)
	if disp.IsRunning() {
		logger.Infof("Stopping dispatcher...")
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()

		done := make(chan error, 1)
		go func() {
			done <- disp.Stop()
		}()

		select {
		case err := <-done:
			if err != nil {
				logger.Errorf("Error stopping dispatcher: %v", err)
			} else {
				logger.Infof("Dispatcher stopped successfully")
			}
		case <-stopCtx.Done():
			logger.Warnf("Dispatcher stop timeout, forcing shutdown")
		}
	}

	// Shutdown HTTP server (with timeout)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Infof("Shutting down HTTP server...")
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	} else {
		logger.Infof("HTTP server stopped successfully")
	}

	// Close database connection
	logger.Infof("Closing database connection...")
	if err := db.Close(); err != nil {
		logger.Errorf("Error closing database: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		logger.Infof("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			logger.Errorf("Error closing Redis: %v", err)
		}
	}

	logger.Infof("Graceful shutdown completed")
}
