// Package htmlutil implements the deterministic HTML normalizations and
// structural inspections shared by the Quality-Refinement stage and the
// RewriteEngine's validators.
package htmlutil

import (
	"regexp"
	"strings"
)

var (
	duplicateCommaRe = regexp.MustCompile(`,{2,}`)
	duplicatePeriodRe = regexp.MustCompile(`\.{2,}`)
	// bareAmpersandRe matches '&' together with the named or numeric entity
	// it starts, if any (e.g. "&amp;", "&#39;", "&#x27;"); a match of just
	// "&" is a bare ampersand.
	bareAmpersandRe = regexp.MustCompile(`&(?:#x?[0-9a-fA-F]+;|[a-zA-Z][a-zA-Z0-9]*;)?`)
)

// Normalize applies the deterministic, idempotent text normalizations
// required post-condition by the Quality-Refinement stage:
//   - em-dash (U+2014) -> ", "
//   - en-dash (U+2013) -> "-"
//   - runs of duplicated terminal punctuation collapse (",," -> ",", ".." -> ".")
//   - bare "&" not already part of an entity is encoded to "&amp;"
//
// Running Normalize twice on its own output returns the same string
// (idempotence is a testable property in spec §8).
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "—", ", ")
	s = strings.ReplaceAll(s, "–", "-")
	s = duplicateCommaRe.ReplaceAllString(s, ",")
	s = duplicatePeriodRe.ReplaceAllString(s, ".")
	s = bareAmpersandRe.ReplaceAllStringFunc(s, func(m string) string {
		if m == "&" {
			return "&amp;"
		}
		return m
	})
	return s
}

// HasEmDash reports whether s contains a literal em-dash character. Used by
// the testable-property check that no content field contains U+2014 after
// normalization.
func HasEmDash(s string) bool {
	return strings.ContainsRune(s, '—')
}
