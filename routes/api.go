package routes

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/ecinar/unified-inbox/environments"
	"github.com/ecinar/unified-inbox/handlers"
	"github.com/ecinar/unified-inbox/internal/middlewares"
	"github.com/ecinar/unified-inbox/internal/roles"
)

// Handlers bundles everything RegisterRoutes wires up.
type Handlers struct {
	Health    *handlers.HealthHandler
	Webhook   *handlers.WebhookHandler
	Message   *handlers.MessageHandler
	Scheduled *handlers.ScheduledHandler
	Dispatch  *handlers.DispatchHandler
	Contact   *handlers.ContactHandler
	Note      *handlers.NoteHandler
	Analytics *handlers.AnalyticsHandler
	User      *handlers.UserHandler
}

// RegisterRoutes registers all API routes with middleware
func RegisterRoutes(e *echo.Echo, h Handlers, cfg *environments.Config) {
	e.GET("/health", h.Health.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 base group
	v1 := e.Group("/api/v1")

	// Provider webhooks authenticate by request signature, not API key.
	v1.POST("/webhooks/twilio", h.Webhook.HandleTwilio)

	// Cron trigger with its own shared secret.
	jobs := v1.Group("/jobs", middlewares.CronSecretAuth(cfg.Auth.CronSecret))
	jobs.GET("/send-scheduled", h.Dispatch.TriggerDispatch)

	// Dashboard API: key-authenticated, role headers resolved per request.
	api := v1.Group("", middlewares.APIKeyAuth(cfg.Auth.APIKey), middlewares.ResolveRole())

	api.POST("/messages", h.Message.SendMessage,
		middlewares.RequirePermission(roles.PermSendMessages))
	api.GET("/messages", h.Message.GetThreadMessages)

	api.GET("/scheduled-messages", h.Scheduled.ListScheduled)

	api.GET("/contacts", h.Contact.ListContacts)
	api.GET("/contacts/:id", h.Contact.GetContact)
	api.POST("/contacts", h.Contact.CreateContact,
		middlewares.RequirePermission(roles.PermEdit))

	api.GET("/notes", h.Note.ListNotes)
	api.POST("/notes", h.Note.CreateNote,
		middlewares.RequirePermission(roles.PermEdit))

	api.GET("/analytics", h.Analytics.GetAnalytics)

	users := api.Group("/users", middlewares.RequirePermission(roles.PermManageUsers))
	users.GET("", h.User.ListUsers)
	users.POST("", h.User.CreateUser)

	api.POST("/dispatcher/start", h.Dispatch.StartDispatcher)
	api.POST("/dispatcher/stop", h.Dispatch.StopDispatcher)
	api.GET("/dispatcher/status", h.Dispatch.GetDispatcherStatus)
}
