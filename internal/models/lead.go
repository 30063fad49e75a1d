package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lead represents a person who submitted an email address to receive an asset.
// Leads are created by the upstream intake-to-lead process and are immutable
// once created as far as the delivery pipeline is concerned.
type Lead struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLead creates a new Lead with a normalized (trimmed, lowercased) email.
func NewLead(email string) *Lead {
	return &Lead{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		CreatedAt: time.Now(),
	}
}

// NormalizeEmail trims surrounding whitespace and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
