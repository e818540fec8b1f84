package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/schedule-assistant/internal/audit"
	"github.com/BruksfildServices01/schedule-assistant/internal/config"
	"github.com/BruksfildServices01/schedule-assistant/internal/handlers"
	"github.com/BruksfildServices01/schedule-assistant/internal/metrics"
	"github.com/BruksfildServices01/schedule-assistant/internal/middleware"
	"github.com/BruksfildServices01/schedule-assistant/internal/ratelimit"
	"github.com/BruksfildServices01/schedule-assistant/internal/realtime"
	"github.com/BruksfildServices01/schedule-assistant/internal/session"
)

// Deps are the long-lived collaborators built in main.
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Sessions *session.Manager
	Hub      *realtime.Hub
	Audit    *audit.Dispatcher
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	HTTPLimiter ratelimit.Limiter
	WSLimiter   ratelimit.Limiter

	Location *time.Location
	Now      func() time.Time
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(d.Config.CORSOrigins))
	r.Use(middleware.RequestLogger(d.Log, d.Metrics))

	// ======================================================
	// HANDLERS
	// ======================================================
	sessionHandler := handlers.NewSessionHandler(d.Sessions, d.Config, d.Log)
	chatHandler := handlers.NewChatHandler(d.Sessions, d.Log)
	chatWSHandler := handlers.NewChatWSHandler(
		d.Sessions,
		d.Hub,
		d.WSLimiter,
		d.Config,
		d.Metrics,
		d.Log,
	)
	appointmentHandler := handlers.NewAppointmentHandler(
		d.Sessions,
		d.Audit,
		d.Location,
		d.Now,
		d.Log,
	)

	// ======================================================
	// PUBLIC
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"sessions": d.Sessions.Len(),
		})
	})

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// WebSocket authenticates itself so it can answer with close codes.
	r.GET("/ws/chat", chatWSHandler.Serve)

	// ======================================================
	// API
	// ======================================================
	api := r.Group("/api")
	api.Use(ratelimit.Middleware(d.HTTPLimiter, d.Metrics, d.Log))

	api.POST("/sessions", sessionHandler.Create)

	scoped := api.Group("")
	scoped.Use(middleware.AuthMiddleware(d.Config))
	{
		scoped.POST("/chat", chatHandler.Send)
		scoped.GET("/chat/history", chatHandler.History)
		scoped.DELETE("/chat/history", chatHandler.ClearHistory)

		scoped.GET("/appointments", appointmentHandler.List)
		scoped.GET("/appointments/month", appointmentHandler.ListByMonth)
		scoped.GET("/appointments.ics", appointmentHandler.Export)
		scoped.POST("/appointments/import", appointmentHandler.Import)
		scoped.GET("/appointments/:id", appointmentHandler.Get)
		scoped.POST("/appointments", appointmentHandler.Create)
		scoped.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)
		scoped.DELETE("/appointments/:id", appointmentHandler.Remove)

		scoped.GET("/availability", appointmentHandler.Availability)

		if d.DB != nil {
			scoped.GET("/audit-logs", handlers.NewAuditLogsHandler(d.DB).List)
		}
	}
}
