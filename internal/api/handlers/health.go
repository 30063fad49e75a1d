package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HealthStatus represents the health status of a component.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResult represents the result of a health check.
type HealthCheckResult struct {
	Status   HealthStatus   `json:"status"`
	Duration string         `json:"duration,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status HealthStatus                  `json:"status"`
	Checks map[string]*HealthCheckResult `json:"checks,omitempty"`
}

// DatabaseHealthChecker defines the interface for database health checking.
type DatabaseHealthChecker interface {
	Ping(ctx context.Context) error
	Health() map[string]any
}

// HealthHandler handles health-related HTTP endpoints.
type HealthHandler struct {
	db     DatabaseHealthChecker
	logger zerolog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DatabaseHealthChecker, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger.With().Str("component", "health_handler").Logger(),
	}
}

// RegisterPublicRoutes registers health check routes.
func (h *HealthHandler) RegisterPublicRoutes(r *gin.Engine) {
	health := r.Group("/health")
	{
		health.GET("", h.Overall)
		health.GET("/db", h.Database)
	}
}

// Overall reports the aggregate health of the server.
func (h *HealthHandler) Overall(c *gin.Context) {
	dbCheck := h.checkDatabase(c.Request.Context())

	resp := HealthResponse{
		Status: HealthStatusHealthy,
		Checks: map[string]*HealthCheckResult{"database": dbCheck},
	}
	code := http.StatusOK
	if dbCheck.Status != HealthStatusHealthy {
		resp.Status = HealthStatusUnhealthy
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, resp)
}

// Database reports the health of the database connection pool.
func (h *HealthHandler) Database(c *gin.Context) {
	check := h.checkDatabase(c.Request.Context())

	code := http.StatusOK
	if check.Status != HealthStatusHealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, check)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) *HealthCheckResult {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("database health check failed")
		return &HealthCheckResult{
			Status:   HealthStatusUnhealthy,
			Duration: time.Since(start).String(),
			Error:    err.Error(),
		}
	}

	return &HealthCheckResult{
		Status:   HealthStatusHealthy,
		Duration: time.Since(start).String(),
		Details:  h.db.Health(),
	}
}
