// Package api provides the HTTP API for the magnet server.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/inkspire/magnet/internal/api/handlers"
	"github.com/inkspire/magnet/internal/api/middleware"
	"github.com/inkspire/magnet/internal/config"
	"github.com/inkspire/magnet/internal/db"
	"github.com/inkspire/magnet/internal/delivery"
)

// maxIntakeBodyBytes bounds intake request bodies; a legitimate lead-magnet
// request is a few hundred bytes at most.
const maxIntakeBodyBytes = 16 * 1024

// Config holds configuration for the API router.
type Config struct {
	// Environment gates development-only allowances (open CORS).
	Environment config.Environment
	// AllowedOrigins for CORS. Empty means all origins allowed in dev mode.
	AllowedOrigins []string
	// RateLimitRequests is the number of requests allowed per period,
	// router-wide.
	RateLimitRequests int64
	// RateLimitPeriod is the duration string for rate limiting (e.g. "1m", "1h").
	RateLimitPeriod string
}

// DefaultConfig returns a Config with sensible defaults for development.
func DefaultConfig() Config {
	return Config{
		Environment:       config.EnvDevelopment,
		AllowedOrigins:    []string{},
		RateLimitRequests: 100,
		RateLimitPeriod:   "1m",
	}
}

// Router wraps a Gin engine with configured middleware and routes.
type Router struct {
	Engine *gin.Engine
	logger zerolog.Logger
}

// NewRouter creates a new Router with the given dependencies.
func NewRouter(
	cfg Config,
	database *db.DB,
	intake *delivery.IntakeService,
	logger zerolog.Logger,
) (*Router, error) {
	r := &Router{
		Engine: gin.New(),
		logger: logger.With().Str("component", "router").Logger(),
	}

	// Global middleware
	r.Engine.Use(gin.Recovery())
	r.Engine.Use(middleware.RequestLogger(logger))
	r.Engine.Use(middleware.SecurityHeaders())
	r.Engine.Use(middleware.CORS(cfg.AllowedOrigins, cfg.Environment))
	r.Engine.Use(middleware.BodyLimit(maxIntakeBodyBytes))

	// Router-wide rate limiting; the intake endpoint carries its own tighter
	// per-client limit on top of this.
	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitPeriod)
	if err != nil {
		return nil, err
	}
	r.Engine.Use(rateLimiter)

	// Health check endpoints
	healthHandler := handlers.NewHealthHandler(database, logger)
	healthHandler.RegisterPublicRoutes(r.Engine)

	// Prometheus metrics endpoint
	metricsHandler := handlers.NewMetricsHandler()
	metricsHandler.RegisterPublicRoutes(r.Engine)

	// Token redemption
	downloadHandler := handlers.NewDownloadHandler(database, logger)
	downloadHandler.RegisterPublicRoutes(r.Engine)

	// Lead-magnet intake
	leadMagnetHandler := handlers.NewLeadMagnetHandler(intake, logger)
	leadMagnetHandler.RegisterPublicRoutes(r.Engine)

	return r, nil
}
