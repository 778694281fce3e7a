package quality

import (
	"strings"
	"testing"

	"github.com/ai-visible/articleengine/internal/article"
)

func wordString(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = "word"
	}
	return strings.Join(words, " ")
}

func TestDirectAnswerScore_FullCredit(t *testing.T) {
	o := &article.Output{DirectAnswer: "AI customer service automation " + wordString(45) + " [1]"}
	got := DirectAnswerScore(o, "AI customer service automation")
	if got != 25 {
		t.Errorf("DirectAnswerScore = %v, want 25", got)
	}
}

func TestDirectAnswerScore_Empty(t *testing.T) {
	o := &article.Output{}
	if got := DirectAnswerScore(o, "keyword"); got != 0 {
		t.Errorf("DirectAnswerScore = %v, want 0", got)
	}
}

func TestQAFormatScore(t *testing.T) {
	o := &article.Output{
		FAQ: make([]article.QA, 5),
		PAA: make([]article.QA, 3),
		Sections: []article.Section{
			{Ordinal: 1, Title: "What is AEO?"},
			{Ordinal: 2, Title: "How does it work?"},
			{Ordinal: 3, Title: "Why does it matter?"},
		},
	}
	if got := QAFormatScore(o); got != 20 {
		t.Errorf("QAFormatScore = %v, want 20", got)
	}
}

func TestCitationClarityScore_BalancedAndDense(t *testing.T) {
	o := &article.Output{
		Intro: "<p>Claim one [1] and claim two [2].</p>",
		Sections: []article.Section{
			{Ordinal: 1, Content: "<p>More detail [1] with another source [2].</p>"},
		},
		Sources: []article.Source{{ID: 1}, {ID: 2}},
	}
	if got := CitationClarityScore(o); got != 15 {
		t.Errorf("CitationClarityScore = %v, want 15", got)
	}
}

func TestCitationClarityScore_Unbalanced(t *testing.T) {
	// [9] has no matching source: the balance component scores 0, but the
	// paragraph still carries >=2 markers so the density component still
	// credits — the two checks are independent per spec §8.
	o := &article.Output{
		Intro:   "<p>Claim one [1] and claim two [9].</p>",
		Sources: []article.Source{{ID: 1}},
	}
	if got := CitationClarityScore(o); got != 8 {
		t.Errorf("CitationClarityScore = %v, want 8 (density only, balance failed)", got)
	}
}

func TestStructuredDataScore(t *testing.T) {
	o := &article.Output{
		Sections: []article.Section{
			{Ordinal: 1, Content: "<h2>A</h2><ul><li>x</li></ul><h2>B</h2><ol><li>y</li></ol><h2>C</h2><ul><li>z</li></ul>"},
		},
	}
	if got := StructuredDataScore(o); got != 10 {
		t.Errorf("StructuredDataScore = %v, want 10", got)
	}
}

func TestEEATScore(t *testing.T) {
	if got := EEATScore(nil); got != 0 {
		t.Errorf("EEATScore(nil) = %v, want 0", got)
	}
	full := &article.Author{Name: "A. Author", Bio: "bio", URL: "https://example.com/author"}
	if got := EEATScore(full); got != 15 {
		t.Errorf("EEATScore(full) = %v, want 15", got)
	}
}

func TestDetectIssues_KeywordOveruse(t *testing.T) {
	content := strings.Repeat("widgets ", 10)
	o := &article.Output{Sections: []article.Section{{Ordinal: 1, Content: content}}}
	issues := DetectIssues(o, "widgets")
	found := false
	for _, i := range issues {
		if i.Kind == "keyword_overuse" {
			found = true
		}
	}
	if !found {
		t.Error("expected keyword_overuse issue")
	}
}

func TestDetectIssues_ShortParagraph(t *testing.T) {
	o := &article.Output{Sections: []article.Section{{Ordinal: 1, Content: "<p>Too short.</p>"}}}
	issues := DetectIssues(o, "")
	found := false
	for _, i := range issues {
		if i.Kind == "short_paragraph" {
			found = true
		}
	}
	if !found {
		t.Error("expected short_paragraph issue")
	}
}

func TestDetectIssues_AIMarkers(t *testing.T) {
	o := &article.Output{Sections: []article.Section{{Ordinal: 1, Content: "<p>Let's delve into the tapestry of options.</p>"}}}
	issues := DetectIssues(o, "")
	found := false
	for _, i := range issues {
		if i.Kind == "ai_markers" {
			found = true
		}
	}
	if !found {
		t.Error("expected ai_markers issue")
	}
}

func TestDetectIssues_UnclosedTag(t *testing.T) {
	o := &article.Output{Sections: []article.Section{{Ordinal: 1, Content: "<p>" + wordString(50) + "<strong>oops</p>"}}}
	issues := DetectIssues(o, "")
	found := false
	for _, i := range issues {
		if i.Kind == "unclosed_tag" {
			found = true
		}
	}
	if !found {
		t.Error("expected unclosed_tag issue")
	}
}

func TestDetectIssues_CleanArticleHasNoIssues(t *testing.T) {
	o := &article.Output{Sections: []article.Section{{Ordinal: 1, Content: "<p>" + wordString(60) + "</p>"}}}
	issues := DetectIssues(o, "unrelated")
	if len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}
