// Package delivery implements the lead-magnet delivery pipeline: redeeming
// download tokens into one-time, audited file deliveries, and processing
// intake requests that trigger delivery emails.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mssola/useragent"
	"github.com/rs/zerolog"

	"github.com/inkspire/magnet/internal/assets"
	"github.com/inkspire/magnet/internal/metrics"
	"github.com/inkspire/magnet/internal/models"
)

// Redemption errors surfaced to the download handler.
var (
	ErrTokenMissing   = errors.New("download token is missing")
	ErrLinkNotFound   = errors.New("download link not found")
	ErrLinkExpired    = errors.New("download link has expired")
	ErrAssetNotMapped = errors.New("asset slug is not in the catalog")
)

// RedemptionStore defines the data access the redemption service needs.
type RedemptionStore interface {
	GetDownloadLinkByTokenHash(ctx context.Context, tokenHash string) (*models.DownloadLink, error)

	// RedeemDownloadLink atomically sets clicked_at, ip and user_agent on the
	// link if and only if clicked_at is still null, and inserts the Download
	// audit row in the same transaction when it did. Returns whether this call
	// performed the first redemption.
	RedeemDownloadLink(ctx context.Context, link *models.DownloadLink, ip, userAgent string, clickedAt time.Time) (bool, error)
}

// RedemptionService turns an opaque download token into a redirect target,
// recording the first click exactly once.
type RedemptionService struct {
	store  RedemptionStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewRedemptionService creates a new RedemptionService.
func NewRedemptionService(store RedemptionStore, logger zerolog.Logger) *RedemptionService {
	return &RedemptionService{
		store:  store,
		logger: logger.With().Str("component", "redemption").Logger(),
		now:    time.Now,
	}
}

// Redeem resolves a raw token to the physical asset path it unlocks.
//
// Expiry is evaluated on every call, not only the first. A link that has
// already been clicked keeps redirecting until it expires, but the Download
// audit row is written at most once, guarded by the store's conditional
// update rather than a read-then-write check.
func (s *RedemptionService) Redeem(ctx context.Context, token, ip, userAgent string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrTokenMissing
	}

	link, err := s.store.GetDownloadLinkByTokenHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, ErrLinkNotFound) {
			s.logger.Debug().Msg("unknown download token")
			metrics.RedemptionTotal.WithLabelValues(metrics.RedemptionNotFound).Inc()
			return "", ErrLinkNotFound
		}
		return "", fmt.Errorf("get download link: %w", err)
	}

	if link.IsExpired(s.now()) {
		s.logger.Debug().
			Str("link_id", link.ID.String()).
			Time("expired_at", link.ExpiresAt).
			Msg("download link expired")
		metrics.RedemptionTotal.WithLabelValues(metrics.RedemptionExpired).Inc()
		return "", ErrLinkExpired
	}

	path, ok := assets.Resolve(link.AssetSlug)
	if !ok {
		// Configuration error: the link is genuine but names a slug the
		// catalog does not carry. Logged loudly so it is distinguishable
		// from an unknown token.
		s.logger.Error().
			Str("link_id", link.ID.String()).
			Str("asset_slug", link.AssetSlug).
			Msg("download link references unmapped asset slug")
		metrics.RedemptionTotal.WithLabelValues(metrics.RedemptionUnmapped).Inc()
		return "", ErrAssetNotMapped
	}

	claimed, err := s.store.RedeemDownloadLink(ctx, link, ip, userAgent, s.now())
	if err != nil {
		return "", fmt.Errorf("redeem download link: %w", err)
	}

	if claimed {
		ua := useragent.New(userAgent)
		browser, version := ua.Browser()
		s.logger.Info().
			Str("link_id", link.ID.String()).
			Str("lead_id", link.LeadID.String()).
			Str("asset_slug", link.AssetSlug).
			Str("ip", ip).
			Str("browser", browser).
			Str("browser_version", version).
			Str("os", ua.OS()).
			Bool("bot", ua.Bot()).
			Msg("download link redeemed")
	} else {
		s.logger.Debug().
			Str("link_id", link.ID.String()).
			Msg("repeat visit to redeemed link")
	}
	metrics.RedemptionTotal.WithLabelValues(metrics.RedemptionRedirected).Inc()

	return path, nil
}
