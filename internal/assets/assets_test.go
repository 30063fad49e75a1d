package assets

import (
	"testing"
)

func TestResolve_KnownSlug(t *testing.T) {
	path, ok := Resolve("calendar-science-2026-en")
	if !ok {
		t.Fatal("expected slug to resolve")
	}
	if path != "/downloads/calendar-science-2026-en.pdf" {
		t.Errorf("unexpected path: %q", path)
	}
}

func TestResolve_UnknownSlug(t *testing.T) {
	if _, ok := Resolve("no-such-asset"); ok {
		t.Fatal("expected unknown slug to not resolve")
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in   string
		want Variant
	}{
		{"standard", VariantStandard},
		{"print", VariantPrint},
		{"", VariantStandard},
		{"glossy", VariantStandard},
		{"PRINT", VariantStandard},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseVariant(tt.in); got != tt.want {
				t.Errorf("ParseVariant(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugFor(t *testing.T) {
	t.Run("known campaign and variant", func(t *testing.T) {
		slug, ok := SlugFor("calendar", VariantPrint)
		if !ok {
			t.Fatal("expected campaign variant to map")
		}
		if slug != "calendar-science-2026-en-print" {
			t.Errorf("unexpected slug: %q", slug)
		}
	})

	t.Run("unknown campaign", func(t *testing.T) {
		if _, ok := SlugFor("no-such-campaign", VariantStandard); ok {
			t.Fatal("expected unknown campaign to not map")
		}
	})
}

func TestSlugFor_EverySlugResolves(t *testing.T) {
	for campaign, variants := range catalog.Campaigns {
		for variant, slug := range variants {
			if _, ok := Resolve(slug); !ok {
				t.Errorf("campaign %q variant %q maps to unresolvable slug %q", campaign, variant, slug)
			}
		}
	}
}

func TestTitle(t *testing.T) {
	if got := Title("calendar-science-2026-en"); got != "The Science Calendar 2026" {
		t.Errorf("unexpected title: %q", got)
	}
	if got := Title("untitled-slug"); got != "untitled-slug" {
		t.Errorf("expected slug fallback, got %q", got)
	}
}

func TestSlugs_SortedAndComplete(t *testing.T) {
	slugs := Slugs()
	if len(slugs) != len(catalog.Assets) {
		t.Fatalf("expected %d slugs, got %d", len(catalog.Assets), len(slugs))
	}
	for i := 1; i < len(slugs); i++ {
		if slugs[i-1] >= slugs[i] {
			t.Fatalf("slugs not sorted: %q before %q", slugs[i-1], slugs[i])
		}
	}
}
