package models

import (
	"time"

	"github.com/google/uuid"
)

// Download is the audit record of one successful first-time redemption.
// At most one Download exists per DownloadLink no matter how many times the
// link is visited afterwards; it is never mutated or deleted.
type Download struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"lead_id"`
	AssetSlug string    `json:"asset_slug"`
	LinkID    uuid.UUID `json:"link_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDownload creates the audit record for a link's first redemption.
func NewDownload(link *DownloadLink) *Download {
	return &Download{
		ID:        uuid.New(),
		LeadID:    link.LeadID,
		AssetSlug: link.AssetSlug,
		LinkID:    link.ID,
		CreatedAt: time.Now(),
	}
}
