// Package linkutil normalizes internal link hrefs to the publication's
// canonical /magazine/{slug} convention (spec §6).
package linkutil

import (
	"regexp"
	"strings"
)

const magazinePrefix = "/magazine/"

var slugNonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts arbitrary text (typically a headline) into a URL-safe
// slug: lowercased, non-alphanumeric runs collapsed to a single hyphen,
// leading/trailing hyphens trimmed.
func Slugify(s string) string {
	lower := strings.ToLower(s)
	slug := slugNonAlnumRe.ReplaceAllString(lower, "-")
	return strings.Trim(slug, "-")
}

// NormalizeHref rewrites href into the canonical internal-link form:
//
//   - external URLs (http://, https://) pass through unchanged
//   - anchors (#...) pass through unchanged
//   - already-/magazine/ hrefs pass through unchanged
//   - /blog/X becomes /magazine/X
//   - /X becomes /magazine/X
//   - bare X becomes /magazine/X
func NormalizeHref(href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return href
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "#"):
		return href
	case strings.HasPrefix(href, magazinePrefix):
		return href
	case strings.HasPrefix(href, "/blog/"):
		return magazinePrefix + strings.TrimPrefix(href, "/blog/")
	case strings.HasPrefix(href, "/"):
		return magazinePrefix + strings.TrimPrefix(href, "/")
	default:
		return magazinePrefix + href
	}
}

// IsInternal reports whether href (after normalization) targets the
// publication's own /magazine/ namespace.
func IsInternal(href string) bool {
	return strings.HasPrefix(NormalizeHref(href), magazinePrefix)
}

// Slug extracts the slug portion of an already-normalized /magazine/{slug}
// href. Returns "" if href is not an internal link.
func Slug(href string) string {
	n := NormalizeHref(href)
	if !strings.HasPrefix(n, magazinePrefix) {
		return ""
	}
	return strings.TrimPrefix(n, magazinePrefix)
}
