package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/schedule-assistant/internal/assistant"
	"github.com/BruksfildServices01/schedule-assistant/internal/audit"
	"github.com/BruksfildServices01/schedule-assistant/internal/config"
	dbpkg "github.com/BruksfildServices01/schedule-assistant/internal/db"
	"github.com/BruksfildServices01/schedule-assistant/internal/metrics"
	"github.com/BruksfildServices01/schedule-assistant/internal/ratelimit"
	"github.com/BruksfildServices01/schedule-assistant/internal/realtime"
	"github.com/BruksfildServices01/schedule-assistant/internal/routes"
	"github.com/BruksfildServices01/schedule-assistant/internal/session"
	"github.com/BruksfildServices01/schedule-assistant/internal/timezone"
)

func main() {

	cfg := config.Load()

	logger := newLogger(cfg)
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	// --------------------------------------------------
	// Metrics
	// --------------------------------------------------
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.MustNewMetrics(registry)

	// --------------------------------------------------
	// Audit
	// --------------------------------------------------
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		logger.Fatal("failed to open audit database", zap.Error(err))
	}

	var sink audit.Sink = audit.NewLogSink(logger.Named("audit"))
	if db != nil {
		sink = audit.NewGormSink(db)
	}
	dispatcher := audit.NewDispatcher(sink, logger)

	// --------------------------------------------------
	// Rate limiting
	// --------------------------------------------------
	httpLimiter, wsLimiter := newLimiters(cfg, logger)

	// --------------------------------------------------
	// Sessions
	// --------------------------------------------------
	clock := timezone.Clock(cfg.Timezone)
	hub := realtime.NewHub(m, logger)
	engine := assistant.NewEngine(assistant.WithClock(clock))
	sessions := session.NewManager(
		session.Config{
			CacheSize:     cfg.SessionCacheSize,
			ThinkDelayMax: cfg.ThinkDelayMax,
		},
		engine,
		dispatcher,
		hub,
		m,
		logger,
	)

	// --------------------------------------------------
	// HTTP
	// --------------------------------------------------
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Config:      cfg,
		Log:         logger,
		DB:          db,
		Sessions:    sessions,
		Hub:         hub,
		Audit:       dispatcher,
		Metrics:     m,
		Gatherer:    registry,
		HTTPLimiter: httpLimiter,
		WSLimiter:   wsLimiter,
		Location:    timezone.Location(cfg.Timezone),
		Now:         clock,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	hub.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	dispatcher.Close()
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.GinMode == gin.DebugMode {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

// newLimiters picks Redis when REDIS_URL is set and reachable, the
// in-process token bucket otherwise.
func newLimiters(cfg *config.Config, logger *zap.Logger) (ratelimit.Limiter, ratelimit.Limiter) {
	if !cfg.RateLimitEnabled {
		return ratelimit.Noop{}, ratelimit.Noop{}
	}

	httpSettings := ratelimit.Settings{PerMinute: cfg.RateLimitHTTPPerMinute, Burst: cfg.RateLimitHTTPBurst}
	wsSettings := ratelimit.Settings{PerMinute: cfg.RateLimitWSPerMinute, Burst: cfg.RateLimitWSBurst}

	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		client, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
		if err == nil {
			logger.Info("rate limiting backed by redis")
			return ratelimit.NewRedis(client, "http", httpSettings),
				ratelimit.NewRedis(client, "ws", wsSettings)
		}
		logger.Warn("redis unavailable, using in-memory rate limiting", zap.Error(err))
	}

	return ratelimit.NewMemory(httpSettings), ratelimit.NewMemory(wsSettings)
}
