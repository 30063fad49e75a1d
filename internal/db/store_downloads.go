package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/inkspire/magnet/internal/models"
)

// Download audit record methods

// GetDownloadByLinkID returns the audit record for a link, if one exists.
func (db *DB) GetDownloadByLinkID(ctx context.Context, linkID uuid.UUID) (*models.Download, error) {
	var d models.Download
	err := db.Pool.QueryRow(ctx, `
		SELECT id, lead_id, asset_slug, link_id, created_at
		FROM downloads
		WHERE link_id = $1
	`, linkID).Scan(&d.ID, &d.LeadID, &d.AssetSlug, &d.LinkID, &d.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("download for link %s not found", linkID)
		}
		return nil, fmt.Errorf("get download: %w", err)
	}
	return &d, nil
}

// CountDownloadsByLinkID returns how many audit records exist for a link.
// The schema allows at most one; the count form keeps tests direct.
func (db *DB) CountDownloadsByLinkID(ctx context.Context, linkID uuid.UUID) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM downloads WHERE link_id = $1
	`, linkID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count downloads: %w", err)
	}
	return count, nil
}

// CountDownloadsByAssetSlug returns how many deliveries an asset has had.
func (db *DB) CountDownloadsByAssetSlug(ctx context.Context, assetSlug string) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM downloads WHERE asset_slug = $1
	`, assetSlug).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count downloads by asset: %w", err)
	}
	return count, nil
}
