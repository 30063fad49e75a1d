package delivery

import (
	"encoding/json"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"

	"github.com/inkspire/magnet/internal/assets"
	"github.com/inkspire/magnet/internal/metrics"
	"github.com/inkspire/magnet/internal/models"
	"github.com/inkspire/magnet/internal/notifications"
	"github.com/inkspire/magnet/internal/ratelimit"
)

// Dispatcher sends a delivery email to a recipient. From this pipeline's
// point of view its only contract is "accepts a recipient and message data,
// and may fail".
type Dispatcher interface {
	SendLeadMagnet(to string, data notifications.LeadMagnetData) error
}

// IntakeRequest is the JSON body of a lead-magnet request. Company is the
// honeypot field: a human-filled form never populates it.
type IntakeRequest struct {
	Email   string `json:"email"`
	Variant string `json:"variant,omitempty"`
	Company string `json:"company,omitempty"`
}

// Outcome classifies how an intake request was handled internally. The split
// is never surfaced to the caller; it feeds logs, metrics and tests only.
type Outcome string

const (
	OutcomeDispatched   Outcome = metrics.IntakeDispatched
	OutcomeRateLimited  Outcome = metrics.IntakeRateLimited
	OutcomeHoneypot     Outcome = metrics.IntakeHoneypot
	OutcomeInvalidEmail Outcome = metrics.IntakeInvalidEmail
	OutcomeIgnored      Outcome = metrics.IntakeIgnored
)

// IntakeService processes lead-magnet requests: it applies the rate-limit
// gate, the honeypot and validation checks, and triggers the delivery email.
// Every outcome is deliberately invisible to the caller so bots cannot tell
// "email sent" from "rejected as spam".
type IntakeService struct {
	limiter    *ratelimit.Limiter
	dispatcher Dispatcher
	siteURL    string
	logger     zerolog.Logger
}

// NewIntakeService creates a new IntakeService. siteURL is the public base
// URL asset links are built against.
func NewIntakeService(limiter *ratelimit.Limiter, dispatcher Dispatcher, siteURL string, logger zerolog.Logger) *IntakeService {
	return &IntakeService{
		limiter:    limiter,
		dispatcher: dispatcher,
		siteURL:    strings.TrimRight(siteURL, "/"),
		logger:     logger.With().Str("component", "intake").Logger(),
	}
}

// Process runs the intake pipeline for one request body. It never fails from
// the caller's perspective; the returned Outcome records what actually
// happened. The rate-limit gate runs before the body is even parsed, so a
// blocked client costs no parsing work.
func (s *IntakeService) Process(campaign, clientKey string, body []byte) Outcome {
	outcome := s.process(campaign, clientKey, body)
	metrics.IntakeTotal.WithLabelValues(string(outcome)).Inc()
	return outcome
}

func (s *IntakeService) process(campaign, clientKey string, body []byte) Outcome {
	if !s.limiter.Allow(clientKey) {
		s.logger.Warn().
			Str("campaign", campaign).
			Str("client_key", clientKey).
			Msg("intake request rate limited")
		return OutcomeRateLimited
	}

	var req IntakeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.logger.Debug().
			Str("campaign", campaign).
			Msg("unparseable intake body")
		return OutcomeIgnored
	}

	if strings.TrimSpace(req.Company) != "" {
		s.logger.Info().
			Str("campaign", campaign).
			Str("client_key", clientKey).
			Msg("honeypot field populated, dropping request")
		return OutcomeHoneypot
	}

	email := models.NormalizeEmail(req.Email)
	if !ValidEmail(email) {
		s.logger.Debug().
			Str("campaign", campaign).
			Msg("intake request with invalid email")
		return OutcomeInvalidEmail
	}

	variant := assets.ParseVariant(req.Variant)
	slug, ok := assets.SlugFor(campaign, variant)
	if !ok {
		s.logger.Warn().
			Str("campaign", campaign).
			Str("variant", string(variant)).
			Msg("intake request for unknown campaign")
		return OutcomeIgnored
	}

	path, ok := assets.Resolve(slug)
	if !ok {
		// Catalog validation at init makes this unreachable, but the slug
		// still must never leave the closed table unresolved.
		s.logger.Error().
			Str("campaign", campaign).
			Str("asset_slug", slug).
			Msg("campaign resolved to unmapped asset slug")
		return OutcomeIgnored
	}

	data := notifications.LeadMagnetData{
		DownloadURL: s.siteURL + path,
		AssetName:   assets.Title(slug),
		Campaign:    campaign,
	}

	// Dispatch failure is logged by the dispatcher and absorbed here: the
	// caller's response must not change.
	if err := s.dispatcher.SendLeadMagnet(email, data); err != nil {
		s.logger.Warn().
			Err(err).
			Str("campaign", campaign).
			Str("asset_slug", slug).
			Msg("delivery email dispatch failed")
	} else {
		s.logger.Info().
			Str("campaign", campaign).
			Str("asset_slug", slug).
			Str("variant", string(variant)).
			Msg("delivery email dispatched")
	}
	return OutcomeDispatched
}

// ValidEmail reports whether email is structurally a plain address. It checks
// shape, not deliverability: a single bare address with a dotted domain.
func ValidEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at < 1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
