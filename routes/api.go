package routes

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/onurcolak/chuck-norris-sms/environments"
	"github.com/onurcolak/chuck-norris-sms/handlers"
	"github.com/onurcolak/chuck-norris-sms/internal/middlewares"
)

// RegisterRoutes registers all bot routes with middleware
func RegisterRoutes(
	e *echo.Echo,
	healthHandler *handlers.HealthHandler,
	webhookHandler *handlers.WebhookHandler,
	adminHandler *handlers.AdminHandler,
	schedulerHandler *handlers.SchedulerHandler,
	cfg *environments.Config,
) {
	e.GET("/health", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	bot := e.Group("/chuck-norris")

	// Provider webhook, never behind the admin key
	bot.POST("/sms", webhookHandler.ReceiveEvent)

	// Remote control
	admin := bot.Group("", middlewares.AdminKeyAuth(cfg.Auth.AdminAPIKey))

	admin.GET("/blast", schedulerHandler.Blast)
	admin.GET("/add", adminHandler.AddSubscriber)
	admin.GET("/delete", adminHandler.DeleteSubscriber)
	admin.GET("/cron-start", schedulerHandler.CronStart)
	admin.GET("/cron-stop", schedulerHandler.CronStop)
	admin.GET("/cron-status", schedulerHandler.CronStatus)
	admin.GET("/stop", adminHandler.Stop)
}
