package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/inkspire/magnet/internal/delivery"
	"github.com/inkspire/magnet/internal/metrics"
	"github.com/inkspire/magnet/internal/ratelimit"
)

// LeadMagnetHandler handles lead-magnet intake requests.
//
// The endpoint always responds 200 {"ok":true} no matter what happened
// internally. Rate-limited, honeypot-caught, unparseable and invalid requests
// all look identical to a sent email from the outside; that denial of signal
// is the point, not an oversight.
type LeadMagnetHandler struct {
	intake *delivery.IntakeService
	logger zerolog.Logger
}

// NewLeadMagnetHandler creates a new LeadMagnetHandler.
func NewLeadMagnetHandler(intake *delivery.IntakeService, logger zerolog.Logger) *LeadMagnetHandler {
	return &LeadMagnetHandler{
		intake: intake,
		logger: logger.With().Str("component", "lead_magnet_handler").Logger(),
	}
}

// RegisterPublicRoutes registers the intake routes.
func (h *LeadMagnetHandler) RegisterPublicRoutes(r *gin.Engine) {
	r.POST("/lead-magnet/:campaign", h.Intake)
}

// Intake accepts a lead-magnet request and triggers the delivery email.
func (h *LeadMagnetHandler) Intake(c *gin.Context) {
	// Whatever happens below, the caller sees success.
	defer c.JSON(http.StatusOK, gin.H{"ok": true})

	if !strings.HasPrefix(c.ContentType(), "application/json") {
		metrics.IntakeTotal.WithLabelValues(metrics.IntakeIgnored).Inc()
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		h.logger.Debug().Err(err).Msg("failed to read intake body")
		metrics.IntakeTotal.WithLabelValues(metrics.IntakeIgnored).Inc()
		return
	}

	campaign := c.Param("campaign")
	clientKey := ratelimit.ClientKey(c.Request)
	h.intake.Process(campaign, clientKey, body)
}
