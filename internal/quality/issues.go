package quality

import (
	"fmt"
	"strings"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/htmlutil"
	"github.com/ai-visible/articleengine/internal/workflow"
)

// MinParagraphWords is the floor below which a paragraph is flagged as too
// short for expansion (spec §4.3: "first paragraph below minimum words").
const MinParagraphWords = 40

// aiMarkerPhrases are stock LLM tells the rubric treats as residue.
var aiMarkerPhrases = []string{
	"as an ai language model", "as an ai,", "i don't have personal",
	"delve into", "tapestry of", "in the realm of",
	"it's important to note that", "it is important to note that",
}

// KeywordOveruseMax is the upper bound of spec §8's primary-keyword
// occurrence range [5, 8]; counts above this trigger a surgical rewrite.
const KeywordOveruseMax = 8

// DetectIssues runs the Quality-Refinement stage's local issue detector:
// keyword overuse, short paragraphs, AI-marker residues, unclosed tags.
// Each returned Issue's Kind matches a key in the quality gate's surgical
// rewrite template table, except "unclosed_tag" which has no rewrite
// template and therefore forces regeneration if it is ever critical.
func DetectIssues(o *article.Output, primaryKeyword string) []workflow.Issue {
	var issues []workflow.Issue

	if primaryKeyword != "" {
		count := keywordCount(o, primaryKeyword)
		if count > KeywordOveruseMax {
			issues = append(issues, workflow.Issue{
				Kind: "keyword_overuse", Field: "all_sections",
				Detail: fmt.Sprintf("%q appears %d times, maximum is %d", primaryKeyword, count, KeywordOveruseMax),
			})
		}
	}

	for _, s := range o.Sections {
		counts := htmlutil.ParagraphWordCounts(s.Content)
		for _, c := range counts {
			if c > 0 && c < MinParagraphWords {
				issues = append(issues, workflow.Issue{
					Kind: "short_paragraph", Field: article.SectionContentField(s.Ordinal),
					Detail: fmt.Sprintf("paragraph has %d words, minimum is %d", c, MinParagraphWords),
				})
				break
			}
		}
	}

	for name, text := range o.ContentFields() {
		lower := strings.ToLower(htmlutil.StripTags(text))
		for _, phrase := range aiMarkerPhrases {
			if strings.Contains(lower, phrase) {
				issues = append(issues, workflow.Issue{
					Kind: "ai_markers", Field: name,
					Detail: fmt.Sprintf("contains stock phrase %q", phrase),
				})
				break
			}
		}
	}

	for name, text := range o.ContentFields() {
		if !wellFormedTags(text) {
			issues = append(issues, workflow.Issue{
				Kind: "unclosed_tag", Field: name, Detail: "HTML tags are not properly nested/closed",
			})
		}
	}

	return issues
}

func keywordCount(o *article.Output, keyword string) int {
	needle := strings.ToLower(keyword)
	count := 0
	for _, s := range o.Sections {
		count += strings.Count(strings.ToLower(htmlutil.StripTags(s.Content)), needle)
	}
	return count
}

// wellFormedTags verifies every end tag closes the most recently opened
// start tag, i.e. the tag sequence forms a valid bracket matching.
func wellFormedTags(s string) bool {
	var stack []string
	for _, tok := range htmlutil.TagSequence(s) {
		if strings.HasPrefix(tok, "/") {
			name := strings.TrimPrefix(tok, "/")
			if len(stack) == 0 || stack[len(stack)-1] != name {
				return false
			}
			stack = stack[:len(stack)-1]
		} else if !voidElement(tok) {
			stack = append(stack, tok)
		}
	}
	return len(stack) == 0
}

var voidElements = map[string]bool{
	"br": true, "img": true, "hr": true, "input": true, "meta": true, "link": true,
}

func voidElement(name string) bool { return voidElements[name] }
