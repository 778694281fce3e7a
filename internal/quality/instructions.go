package quality

import (
	"fmt"
	"regexp"

	"github.com/ai-visible/articleengine/internal/workflow"
)

var quotedRe = regexp.MustCompile(`"([^"]*)"`)

// BuildInstruction maps a critical Issue detected by DetectIssues (or
// surfaced by a later stage, e.g. Similarity-Check's duplicate flag) to a
// concrete RewriteInstruction, returning ok=false for issue kinds with no
// known template — the quality gate then falls back to regeneration.
func BuildInstruction(issue workflow.Issue, primaryKeyword string) (workflow.RewriteInstruction, bool) {
	switch issue.Kind {
	case "keyword_overuse":
		return workflow.RewriteInstruction{
			Target:      "all_sections",
			Instruction: fmt.Sprintf("Reduce occurrences of %q toward the 5-8 range.", primaryKeyword),
			Mode:        "quality_fix",
			Context: map[string]any{
				"keyword":       primaryKeyword,
				"target_range":  "5-8",
				"current_count": countFromDetail(issue.Detail),
			},
		}, true

	case "short_paragraph":
		return workflow.RewriteInstruction{
			Target:      issue.Field,
			Instruction: "Expand the shortest paragraph to at least 40 words.",
			Mode:        "quality_fix",
			Context:     map[string]any{"target_range": "40-80 words"},
		}, true

	case "ai_markers":
		return workflow.RewriteInstruction{
			Target:      issue.Field,
			Instruction: "Remove stock AI-sounding phrasing.",
			Mode:        "quality_fix",
			Context:     map[string]any{"markers": quotedRe.FindAllString(issue.Detail, -1)},
		}, true

	case "outdated_statistic":
		return workflow.RewriteInstruction{
			Target:      issue.Field,
			Instruction: "Update the outdated statistic to a current figure.",
			Mode:        "quality_fix",
		}, true

	default:
		return workflow.RewriteInstruction{}, false
	}
}

func countFromDetail(detail string) int {
	var keyword string
	var count int
	fmt.Sscanf(detail, "%q appears %d times", &keyword, &count)
	return count
}
