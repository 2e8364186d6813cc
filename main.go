package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // broadcast timezone must resolve on minimal images

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/onurcolak/chuck-norris-sms/environments"
	"github.com/onurcolak/chuck-norris-sms/handlers"
	"github.com/onurcolak/chuck-norris-sms/internal/repository"
	"github.com/onurcolak/chuck-norris-sms/internal/scheduler"
	"github.com/onurcolak/chuck-norris-sms/internal/service"
	"github.com/onurcolak/chuck-norris-sms/pkg/jokes"
	"github.com/onurcolak/chuck-norris-sms/pkg/logger"
	"github.com/onurcolak/chuck-norris-sms/pkg/redis"
	"github.com/onurcolak/chuck-norris-sms/pkg/telnyx"
	"github.com/onurcolak/chuck-norris-sms/pkg/validator"
	"github.com/onurcolak/chuck-norris-sms/routes"

	_ "github.com/onurcolak/chuck-norris-sms/docs" // swagger docs
)

// @title Chuck Norris SMS Bot API
// @version 1.0
// @description Telnyx SMS and voice bot that sends Chuck Norris jokes to its subscribers

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /

// @schemes http https
func main() {
	// Load config
	cfg := environments.Load()

	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	// Hard-fail if required secrets are missing
	if cfg.Telnyx.APIKey == "" {
		logger.Fatalf("TELNYX_API_KEY is required but not set")
	}
	if cfg.Message.SMSFromNumber == "" {
		logger.Warnf("SMS_FROM_NUMBER is not set, admin adds will have no reply number")
	}

	logger.Infof("Starting Chuck Norris SMS bot...")

	// Init subscriber store
	store, err := repository.Open(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to open subscriber store: %v", err)
	}
	logger.Infof("Subscriber store ready (%s: %s)", cfg.Storage.Driver, cfg.Storage.Path)

	// Init redis
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Warnf("Redis not available, webhook dedup disabled: %v", err)
			redisClient = nil
		}
	}

	// Initialize outbound clients
	gateway := telnyx.NewClient(cfg.Telnyx)
	logger.Infof("Telnyx configured: %s", gateway.GetURL())

	jokesClient := jokes.NewClient(cfg.Jokes)

	// Initialize services
	dispatcher := service.NewDispatcher(store, gateway, jokesClient, cfg.Message)
	if redisClient != nil {
		dispatcher.WithDeduper(redisClient)
	}

	broadcaster := service.NewBroadcaster(store, gateway, jokesClient, cfg.Message, cfg.Broadcast)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize scheduler
	sched, err := scheduler.NewScheduler(broadcaster, cfg.Broadcast)
	if err != nil {
		logger.Fatalf("Failed to initialize scheduler: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(store)
	if redisClient != nil {
		healthHandler.WithCache(redisClient)
	}
	webhookHandler := handlers.NewWebhookHandler(dispatcher, cfg.Server.DispatchTimeout)
	adminHandler := handlers.NewAdminHandler(store, cfg.Message.SMSFromNumber, func() {
		logger.Warnf("Process terminated by admin request")
		os.Exit(1)
	})
	schedulerHandler := handlers.NewSchedulerHandler(sched, ctx)

	// Auto-start scheduler
	if cfg.Broadcast.AutoStart {
		logger.Infof("Auto-starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			logger.Warnf("Failed to auto-start scheduler: %v", err)
		}
	}

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := logger.Get().Info()
			if v.Error != nil {
				event = logger.Get().Error().Err(v.Error)
			}
			event.
				Str("id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Setup routes
	routes.RegisterRoutes(e, healthHandler, webhookHandler, adminHandler, schedulerHandler, cfg)

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

	// Stop scheduler first (with timeout)
	if sched.IsRunning() {
		logger.Infof("Stopping scheduler...")
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()

		done := make(chan error, 1)
		go func() {
			done <- sched.Stop()
		}()

		select {
		case err := <-done:
			if err != nil {
				logger.Errorf("Error stopping scheduler: %v", err)
			} else {
				logger.Infof("Scheduler stopped successfully")
			}
		case <-stopCtx.Done():
			logger.Warnf("Scheduler stop timeout, forcing shutdown")
		}
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Shutdown HTTP server (with timeout)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Infof("Shutting down HTTP server...")
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	} else {
		logger.Infof("HTTP server stopped successfully")
	}

	// Close subscriber store
	logger.Infof("Closing subscriber store...")
	if err := store.Close(); err != nil {
		logger.Errorf("Error closing subscriber store: %v", err)
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
