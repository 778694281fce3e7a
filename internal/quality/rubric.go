// Package quality implements the AEO scoring rubric (spec §8): six
// independently testable component scorers plus a Score entry point that
// sums them and surfaces critical issues the quality gate can act on.
package quality

import (
	"regexp"
	"strings"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/htmlutil"
)

// conversationalMarkers is a small fixed list of phrases that signal
// natural, second-person, answer-engine-friendly prose.
var conversationalMarkers = []string{
	"you", "your", "let's", "here's", "think about", "imagine",
	"in other words", "simply put", "for example", "the good news",
}

// forbiddenVaguePhrases are generic filler phrases the rubric penalizes.
var forbiddenVaguePhrases = []string{
	"in today's fast-paced world", "in the ever-evolving landscape",
	"at the end of the day", "it goes without saying", "needless to say",
}

var citationMarkerAnyRe = regexp.MustCompile(`\[\d+\]`)

// DirectAnswerScore scores the Direct_Answer field (max 25): present,
// 40-60 words, contains the primary keyword, contains a [N] marker.
func DirectAnswerScore(o *article.Output, primaryKeyword string) float64 {
	if strings.TrimSpace(o.DirectAnswer) == "" {
		return 0
	}
	var score float64
	words := len(strings.Fields(htmlutil.StripTags(o.DirectAnswer)))
	if words >= 40 && words <= 60 {
		score += 10
	}
	if primaryKeyword != "" && containsFold(o.DirectAnswer, primaryKeyword) {
		score += 8
	}
	if citationMarkerAnyRe.MatchString(o.DirectAnswer) {
		score += 7
	}
	return score
}

// QAFormatScore scores FAQ/PAA coverage and question-form section titles
// (max 20): FAQ size in [5,6], PAA size in [3,4], >=3 question-form titles.
func QAFormatScore(o *article.Output) float64 {
	var score float64
	if len(o.FAQ) >= 5 && len(o.FAQ) <= 6 {
		score += 8
	}
	if len(o.PAA) >= 3 && len(o.PAA) <= 4 {
		score += 6
	}
	questionTitles := 0
	for _, s := range o.Sections {
		if strings.HasSuffix(strings.TrimSpace(s.Title), "?") {
			questionTitles++
		}
	}
	if questionTitles >= 3 {
		score += 6
	}
	return score
}

// CitationClarityScore scores citation usage (max 15): [N] markers balanced
// with Sources entries, >=60% of paragraphs containing >=2 citations.
func CitationClarityScore(o *article.Output) float64 {
	var score float64

	markerSet := map[int]bool{}
	var body strings.Builder
	body.WriteString(o.Intro)
	for _, s := range o.Sections {
		body.WriteString(s.Content)
	}
	for _, n := range htmlutil.CitationMarkers(body.String()) {
		markerSet[n] = true
	}
	sourceSet := map[int]bool{}
	for _, src := range o.Sources {
		sourceSet[src.ID] = true
	}
	balanced := len(markerSet) > 0
	for n := range markerSet {
		if !sourceSet[n] {
			balanced = false
			break
		}
	}
	if balanced {
		score += 7
	}

	counts := htmlutil.ParagraphCitationCounts(body.String())
	if len(counts) > 0 {
		withTwo := 0
		for _, c := range counts {
			if c >= 2 {
				withTwo++
			}
		}
		if float64(withTwo)/float64(len(counts)) >= 0.60 {
			score += 8
		}
	}
	return score
}

// NaturalLanguageScore scores conversational tone (max 15): >=8
// conversational markers present, no forbidden vague phrasing.
func NaturalLanguageScore(o *article.Output) float64 {
	var body strings.Builder
	body.WriteString(o.Intro)
	for _, s := range o.Sections {
		body.WriteString(" ")
		body.WriteString(s.Content)
	}
	text := strings.ToLower(htmlutil.StripTags(body.String()))

	var score float64
	markerHits := 0
	for _, m := range conversationalMarkers {
		if strings.Contains(text, m) {
			markerHits++
		}
	}
	if markerHits >= 8 {
		score += 10
	} else {
		score += 10 * float64(markerHits) / 8
	}

	hasForbidden := false
	for _, p := range forbiddenVaguePhrases {
		if strings.Contains(text, p) {
			hasForbidden = true
			break
		}
	}
	if !hasForbidden {
		score += 5
	}
	return score
}

// StructuredDataScore scores markup richness (max 10): >=3 lists, >=3 H2
// headings across all content fields.
func StructuredDataScore(o *article.Output) float64 {
	var body strings.Builder
	body.WriteString(o.Intro)
	for _, s := range o.Sections {
		body.WriteString(s.Content)
	}
	text := body.String()

	lists := htmlutil.CountTag(text, "ul") + htmlutil.CountTag(text, "ol")
	headings := htmlutil.CountTag(text, "h2")

	var score float64
	if lists >= 3 {
		score += 5
	}
	if headings >= 3 {
		score += 5
	}
	return score
}

// EEATScore scores author attribution (max 15): populated only if an
// Author record was supplied, otherwise 0.
func EEATScore(author *article.Author) float64 {
	if author == nil || strings.TrimSpace(author.Name) == "" {
		return 0
	}
	var score float64
	score += 7 // named author present
	if strings.TrimSpace(author.Bio) != "" {
		score += 4
	}
	if strings.TrimSpace(author.URL) != "" {
		score += 4
	}
	return score
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
