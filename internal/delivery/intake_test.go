package delivery

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkspire/magnet/internal/notifications"
	"github.com/inkspire/magnet/internal/ratelimit"
)

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []notifications.LeadMagnetData
	to   []string
	fail bool
}

func (d *fakeDispatcher) SendLeadMagnet(to string, data notifications.LeadMagnetData) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail {
		return errors.New("smtp unavailable")
	}
	d.to = append(d.to, to)
	d.sent = append(d.sent, data)
	return nil
}

func (d *fakeDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

func newIntakeService(dispatcher Dispatcher, max int) *IntakeService {
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), max, time.Minute)
	return NewIntakeService(limiter, dispatcher, "https://example.com/", zerolog.Nop())
}

func TestIntake_ValidRequestDispatchesOnce(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc := newIntakeService(dispatcher, 10)

	outcome := svc.Process("calendar", "1.2.3.4", []byte(`{"email":" Reader@Example.COM "}`))
	if outcome != OutcomeDispatched {
		t.Fatalf("expected dispatched, got %q", outcome)
	}
	if dispatcher.count() != 1 {
		t.Fatalf("expected one dispatch, got %d", dispatcher.count())
	}
	if dispatcher.to[0] != "reader@example.com" {
		t.Errorf("expected normalized recipient, got %q", dispatcher.to[0])
	}
	if dispatcher.sent[0].DownloadURL != "https://example.com/downloads/calendar-science-2026-en.pdf" {
		t.Errorf("unexpected download URL: %q", dispatcher.sent[0].DownloadURL)
	}
	if dispatcher.sent[0].AssetName != "The Science Calendar 2026" {
		t.Errorf("unexpected asset name: %q", dispatcher.sent[0].AssetName)
	}
}

func TestIntake_PrintVariant(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc := newIntakeService(dispatcher, 10)

	outcome := svc.Process("calendar", "1.2.3.4", []byte(`{"email":"reader@example.com","variant":"print"}`))
	if outcome != OutcomeDispatched {
		t.Fatalf("expected dispatched, got %q", outcome)
	}
	if dispatcher.sent[0].DownloadURL != "https://example.com/downloads/calendar-science-2026-en-print.pdf" {
		t.Errorf("unexpected download URL: %q", dispatcher.sent[0].DownloadURL)
	}
}

func TestIntake_UnknownVariantFallsBackToStandard(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc := newIntakeService(dispatcher, 10)

	outcome := svc.Process("calendar", "1.2.3.4", []byte(`{"email":"reader@example.com","variant":"hologram"}`))
	if outcome != OutcomeDispatched {
		t.Fatalf("expected dispatched, got %q", outcome)
	}
	if dispatcher.sent[0].DownloadURL != "https://example.com/downloads/calendar-science-2026-en.pdf" {
		t.Errorf("expected standard variant URL, got %q", dispatcher.sent[0].DownloadURL)
	}
}

func TestIntake_HoneypotDropsSilently(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc := newIntakeService(dispatcher, 10)

	outcome := svc.Process("calendar", "1.2.3.4", []byte(`{"email":"reader@example.com","company":"Totally Real LLC"}`))
	if outcome != OutcomeHoneypot {
		t.Fatalf("expected honeypot outcome, got %q", outcome)
	}
	if dispatcher.count() != 0 {
		t.Fatalf("expected no dispatch for honeypot request, got %d", dispatcher.count())
	}
}

func TestIntake_InvalidEmail(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc := newIntakeService(dispatcher, 10)

	for _, email := range []string{"not-an-email", "a@b", "", "two words@example.com"} {
		outcome := svc.Process("calendar", "1.2.3.4", []byte(`{"email":"`+email+`"}`))
		if outcome != OutcomeInvalidEmail {
			t.Errorf("email %q: expected invalid_email, got %q", email, outcome)
		}
	}
	if dispatcher.count() != 0 {
		t.Fatalf("expected no dispatches, got %d", dispatcher.count())
	}
}

func TestIntake_UnparseableBody(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc := newIntakeService(dispatcher, 10)

	outcome := svc.Process("calendar", "1.2.3.4", []byte(`{"email": `))
	if outcome != OutcomeIgnored {
		t.Fatalf("expected ignored, got %q", outcome)
	}
	if dispatcher.count() != 0 {
		t.Fatal("expected no dispatch for unparseable body")
	}
}

func TestIntake_UnknownCampaign(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc := newIntakeService(dispatcher, 10)

	outcome := svc.Process("no-such-campaign", "1.2.3.4", []byte(`{"email":"reader@example.com"}`))
	if outcome != OutcomeIgnored {
		t.Fatalf("expected ignored, got %q", outcome)
	}
	if dispatcher.count() != 0 {
		t.Fatal("expected no dispatch for unknown campaign")
	}
}

func TestIntake_RateLimitBeforeParsing(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc := newIntakeService(dispatcher, 2)

	body := []byte(`{"email":"reader@example.com"}`)
	for i := 0; i < 2; i++ {
		if outcome := svc.Process("calendar", "9.9.9.9", body); outcome != OutcomeDispatched {
			t.Fatalf("request %d: expected dispatched, got %q", i+1, outcome)
		}
	}

	outcome := svc.Process("calendar", "9.9.9.9", body)
	if outcome != OutcomeRateLimited {
		t.Fatalf("expected rate_limited, got %q", outcome)
	}
	if dispatcher.count() != 2 {
		t.Fatalf("expected two dispatches, got %d", dispatcher.count())
	}

	// A different client still gets through.
	if outcome := svc.Process("calendar", "8.8.8.8", body); outcome != OutcomeDispatched {
		t.Fatalf("expected other client dispatched, got %q", outcome)
	}
}

func TestIntake_DispatchFailureIsAbsorbed(t *testing.T) {
	dispatcher := &fakeDispatcher{fail: true}
	svc := newIntakeService(dispatcher, 10)

	outcome := svc.Process("calendar", "1.2.3.4", []byte(`{"email":"reader@example.com"}`))
	if outcome != OutcomeDispatched {
		t.Fatalf("expected dispatched outcome despite failure, got %q", outcome)
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{
		"reader@example.com",
		"first.last@sub.example.co.uk",
		"user+tag@example.org",
	}
	invalid := []string{
		"",
		"not-an-email",
		"a@b",
		"@example.com",
		"user@",
		"user@.com",
		"user@example.",
		"two words@example.com",
		"Reader <reader@example.com>",
	}

	for _, email := range valid {
		if !ValidEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}
	for _, email := range invalid {
		if ValidEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}
