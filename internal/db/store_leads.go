package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/inkspire/magnet/internal/models"
)

// Lead methods

// CreateLead stores a new lead.
func (db *DB) CreateLead(ctx context.Context, lead *models.Lead) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO leads (id, email, created_at)
		VALUES ($1, $2, $3)
	`, lead.ID, lead.Email, lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

// GetLeadByID returns a lead by its ID.
func (db *DB) GetLeadByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	err := db.Pool.QueryRow(ctx, `
		SELECT id, email, created_at
		FROM leads
		WHERE id = $1
	`, id).Scan(&lead.ID, &lead.Email, &lead.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("lead %s not found", id)
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return &lead, nil
}

// GetLeadByEmail returns the most recent lead for a normalized email.
func (db *DB) GetLeadByEmail(ctx context.Context, email string) (*models.Lead, error) {
	var lead models.Lead
	err := db.Pool.QueryRow(ctx, `
		SELECT id, email, created_at
		FROM leads
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, email).Scan(&lead.ID, &lead.Email, &lead.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("lead with email %s not found", email)
		}
		return nil, fmt.Errorf("get lead by email: %w", err)
	}
	return &lead, nil
}
