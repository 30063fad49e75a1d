// Package assets resolves logical asset slugs to physical download paths.
//
// The catalog is a closed, hand-maintained table embedded at build time.
// Lookups are pure functions over the parsed table; a slug missing from the
// table is a configuration error, not a client error.
package assets

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Variant selects which rendition of a campaign's asset to deliver.
type Variant string

const (
	// VariantStandard is the screen-optimized rendition.
	VariantStandard Variant = "standard"
	// VariantPrint is the print-optimized rendition.
	VariantPrint Variant = "print"
)

// ParseVariant maps a request value onto the closed variant enum. Unknown
// values fall back to VariantStandard rather than erroring.
func ParseVariant(s string) Variant {
	switch Variant(s) {
	case VariantStandard, VariantPrint:
		return Variant(s)
	default:
		return VariantStandard
	}
}

type catalogFile struct {
	Assets    map[string]string            `yaml:"assets"`
	Titles    map[string]string            `yaml:"titles"`
	Campaigns map[string]map[string]string `yaml:"campaigns"`
}

var catalog catalogFile

func init() {
	if err := yaml.Unmarshal(catalogYAML, &catalog); err != nil {
		panic(fmt.Sprintf("assets: malformed embedded catalog: %v", err))
	}
	// Every campaign variant must point at a listed asset.
	for campaign, variants := range catalog.Campaigns {
		for variant, slug := range variants {
			if _, ok := catalog.Assets[slug]; !ok {
				panic(fmt.Sprintf("assets: campaign %q variant %q references unlisted slug %q", campaign, variant, slug))
			}
		}
	}
}

// Resolve returns the physical download path for a logical asset slug.
// The second return value is false when the slug is not in the catalog.
func Resolve(slug string) (string, bool) {
	path, ok := catalog.Assets[slug]
	return path, ok
}

// SlugFor returns the asset slug a campaign delivers for the given variant.
// The second return value is false when the campaign is unknown or has no
// mapping for the variant.
func SlugFor(campaign string, v Variant) (string, bool) {
	variants, ok := catalog.Campaigns[campaign]
	if !ok {
		return "", false
	}
	slug, ok := variants[string(v)]
	return slug, ok
}

// Title returns the display title for an asset slug, falling back to the
// slug itself when no title is catalogued.
func Title(slug string) string {
	if title, ok := catalog.Titles[slug]; ok {
		return title
	}
	return slug
}

// Slugs returns all catalogued asset slugs in sorted order.
func Slugs() []string {
	slugs := make([]string, 0, len(catalog.Assets))
	for slug := range catalog.Assets {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
