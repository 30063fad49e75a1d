package models

import (
	"time"

	"github.com/google/uuid"
)

// DownloadLink is a single-use credential binding a Lead to an asset. Only the
// SHA-256 hash of the bearer token is stored; the raw token never touches the
// database. ClickedAt is set at most once, on the first successful redemption
// before expiry, and is never cleared afterwards.
type DownloadLink struct {
	ID        uuid.UUID  `json:"id"`
	TokenHash string     `json:"-"`
	LeadID    uuid.UUID  `json:"lead_id"`
	AssetSlug string     `json:"asset_slug"`
	ExpiresAt time.Time  `json:"expires_at"`
	ClickedAt *time.Time `json:"clicked_at,omitempty"`
	IP        string     `json:"ip,omitempty"`
	UserAgent string     `json:"user_agent,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewDownloadLink creates an unredeemed DownloadLink for a lead and asset.
func NewDownloadLink(leadID uuid.UUID, tokenHash, assetSlug string, expiresAt time.Time) *DownloadLink {
	return &DownloadLink{
		ID:        uuid.New(),
		TokenHash: tokenHash,
		LeadID:    leadID,
		AssetSlug: assetSlug,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
}

// IsExpired reports whether the link is past its expiry at the given instant.
func (l *DownloadLink) IsExpired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// IsClicked reports whether the link has already been redeemed at least once.
func (l *DownloadLink) IsClicked() bool {
	return l.ClickedAt != nil
}
