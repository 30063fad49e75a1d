// Package metrics exposes Prometheus counters for the delivery pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Redemption outcomes.
const (
	RedemptionRedirected = "redirected"
	RedemptionNotFound   = "not_found"
	RedemptionExpired    = "expired"
	RedemptionUnmapped   = "unmapped_asset"
)

// Intake outcomes. Every outcome other than "dispatched" is invisible to the
// caller; the counters are the only place the split is observable.
const (
	IntakeDispatched   = "dispatched"
	IntakeRateLimited  = "rate_limited"
	IntakeHoneypot     = "honeypot"
	IntakeInvalidEmail = "invalid_email"
	IntakeIgnored      = "ignored"
)

var (
	// RedemptionTotal counts download-token redemption attempts by outcome.
	RedemptionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "magnet",
		Name:      "redemptions_total",
		Help:      "Download token redemption attempts by outcome.",
	}, []string{"outcome"})

	// IntakeTotal counts lead-magnet intake requests by internal outcome.
	IntakeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "magnet",
		Name:      "intake_requests_total",
		Help:      "Lead-magnet intake requests by internal outcome.",
	}, []string{"outcome"})

	// EmailDispatchTotal counts delivery email dispatch attempts by result.
	EmailDispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "magnet",
		Name:      "email_dispatch_total",
		Help:      "Delivery email dispatch attempts by result.",
	}, []string{"result"})
)
