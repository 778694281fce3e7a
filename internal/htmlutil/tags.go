package htmlutil

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags removes all HTML markup from s, returning the concatenated text
// content with collapsed whitespace. Used to sanitize plain-text fields
// (titles, meta strings, question strings) per spec §4.2.
func StripTags(s string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	var sb strings.Builder
	lastWasText := false
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(collapseSpaces(sb.String()))
		case html.TextToken:
			text := string(tokenizer.Text())
			if strings.TrimSpace(text) == "" {
				continue
			}
			if lastWasText {
				sb.WriteString(" ")
			}
			sb.WriteString(text)
			lastWasText = true
		default:
			// Start/end/self-closing tags introduce a word boundary so
			// adjacent text runs across tags don't glue together.
			if lastWasText {
				sb.WriteString(" ")
				lastWasText = false
			}
		}
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TagSequence returns the ordered list of HTML start-tag names appearing in
// s, e.g. ["p", "strong", "/p", "ul", "li", "/li", "/ul"]. End tags are
// prefixed with "/". Used by the RewriteEngine's structural-preservation
// check: the tag sequence must be identical before and after an edit.
func TagSequence(s string) []string {
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	var seq []string
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return seq
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			seq = append(seq, string(name))
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			seq = append(seq, "/"+string(name))
		}
	}
}

// SameTagSequence reports whether before and after share an identical
// ordered list of HTML tag names — the RewriteEngine's HTML-structure
// invariant (spec §4.3, §8).
func SameTagSequence(before, after string) bool {
	a, b := TagSequence(before), TagSequence(after)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
