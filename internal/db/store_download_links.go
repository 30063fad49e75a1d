package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/inkspire/magnet/internal/delivery"
	"github.com/inkspire/magnet/internal/models"
)

// Download link methods

// CreateDownloadLink stores a new download link. The caller is responsible
// for hashing the token; the raw token never reaches this layer.
func (db *DB) CreateDownloadLink(ctx context.Context, link *models.DownloadLink) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO download_links (id, token_hash, lead_id, asset_slug, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, link.ID, link.TokenHash, link.LeadID, link.AssetSlug, link.ExpiresAt, link.CreatedAt)
	if err != nil {
		return fmt.Errorf("create download link: %w", err)
	}
	return nil
}

// GetDownloadLinkByTokenHash retrieves a download link by its token hash.
func (db *DB) GetDownloadLinkByTokenHash(ctx context.Context, tokenHash string) (*models.DownloadLink, error) {
	var link models.DownloadLink
	var ip, userAgent *string
	err := db.Pool.QueryRow(ctx, `
		SELECT id, token_hash, lead_id, asset_slug, expires_at, clicked_at, ip, user_agent, created_at
		FROM download_links
		WHERE token_hash = $1
	`, tokenHash).Scan(
		&link.ID, &link.TokenHash, &link.LeadID, &link.AssetSlug,
		&link.ExpiresAt, &link.ClickedAt, &ip, &userAgent, &link.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, delivery.ErrLinkNotFound
		}
		return nil, fmt.Errorf("get download link: %w", err)
	}
	if ip != nil {
		link.IP = *ip
	}
	if userAgent != nil {
		link.UserAgent = *userAgent
	}
	return &link, nil
}

// RedeemDownloadLink records the first click on a link exactly once.
//
// The clicked_at update is a single conditional UPDATE scoped by
// "clicked_at IS NULL"; two concurrent redemptions can both reach this
// method, but only the one whose update reports an affected row inserts the
// Download audit record. Both run inside one transaction so a claim is never
// committed without its audit row.
func (db *DB) RedeemDownloadLink(ctx context.Context, link *models.DownloadLink, ip, userAgent string, clickedAt time.Time) (bool, error) {
	claimed := false
	err := db.ExecTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE download_links
			SET clicked_at = $2, ip = $3, user_agent = $4
			WHERE id = $1 AND clicked_at IS NULL
		`, link.ID, clickedAt, ip, userAgent)
		if err != nil {
			return fmt.Errorf("claim download link: %w", err)
		}
		if tag.RowsAffected() == 0 {
			// Already clicked; repeat visit, no new audit row.
			return nil
		}

		download := models.NewDownload(link)
		if _, err := tx.Exec(ctx, `
			INSERT INTO downloads (id, lead_id, asset_slug, link_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, download.ID, download.LeadID, download.AssetSlug, download.LinkID, download.CreatedAt); err != nil {
			return fmt.Errorf("create download record: %w", err)
		}
		claimed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return claimed, nil
}
