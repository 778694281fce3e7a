package render

import "regexp"

// citationMarkerRe matches an inline "[N]" citation marker.
var citationMarkerRe = regexp.MustCompile(`\[(\d+)\]`)

// linkifyCitations rewrites every "[N]" marker in HTML content into an
// anchor pointing at the matching #source-N element in the sources list
// rendered at the foot of the article.
func linkifyCitations(html string) string {
	return citationMarkerRe.ReplaceAllString(html, `<a href="#source-$1" class="citation-marker">[$1]</a>`)
}
