// Package handlers provides HTTP handlers for the magnet server.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/inkspire/magnet/internal/delivery"
	"github.com/inkspire/magnet/internal/ratelimit"
)

// DownloadHandler handles download token redemption.
type DownloadHandler struct {
	service *delivery.RedemptionService
	logger  zerolog.Logger
}

// NewDownloadHandler creates a new DownloadHandler.
func NewDownloadHandler(store delivery.RedemptionStore, logger zerolog.Logger) *DownloadHandler {
	return &DownloadHandler{
		service: delivery.NewRedemptionService(store, logger),
		logger:  logger.With().Str("component", "download_handler").Logger(),
	}
}

// RegisterPublicRoutes registers the redemption routes.
func (h *DownloadHandler) RegisterPublicRoutes(r *gin.Engine) {
	r.GET("/download/:token", h.Redeem)
	r.GET("/download", h.MissingToken)
}

// Redeem redeems a download token and redirects to the asset it unlocks.
//
// The redirect carries Cache-Control: no-store so intermediaries never
// memoize it. Repeat visits before expiry keep redirecting; expiry is
// enforced on every visit.
func (h *DownloadHandler) Redeem(c *gin.Context) {
	token := c.Param("token")
	ip := ratelimit.ClientKey(c.Request)
	userAgent := c.Request.UserAgent()

	path, err := h.service.Redeem(c.Request.Context(), token, ip, userAgent)
	if err != nil {
		switch {
		case errors.Is(err, delivery.ErrTokenMissing):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Download token is required"})
		case errors.Is(err, delivery.ErrLinkNotFound), errors.Is(err, delivery.ErrAssetNotMapped):
			c.JSON(http.StatusNotFound, gin.H{"error": "Download not found"})
		case errors.Is(err, delivery.ErrLinkExpired):
			c.JSON(http.StatusGone, gin.H{"error": "This download link has expired"})
		default:
			h.logger.Error().Err(err).Msg("failed to redeem download token")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process download"})
		}
		return
	}

	c.Header("Cache-Control", "no-store, max-age=0")
	c.Redirect(http.StatusFound, path)
}

// MissingToken answers requests to the bare download path.
func (h *DownloadHandler) MissingToken(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Download token is required"})
}
