package rewrite

import (
	"strings"

	"github.com/ai-visible/articleengine/internal/htmlutil"
)

// TokenSetSimilarity computes the Jaccard similarity of the word-token sets
// of a and b: |intersection| / |union|. Identical inputs score 1.0;
// disjoint inputs score 0.0. Used by the RewriteEngine's similarity bound
// check (spec §4.3) — deliberately plain set overlap, not SimHash, since
// the bound is meant to catch "no-op" (too similar) and "full rewrite"
// (too different) edits on a single field, not cross-article duplication.
func TokenSetSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}

	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	plain := strings.ToLower(htmlutil.StripTags(s))
	set := make(map[string]bool)
	for _, w := range strings.Fields(plain) {
		set[w] = true
	}
	return set
}
