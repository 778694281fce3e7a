package rewrite

import (
	"fmt"
	"strings"

	"github.com/ai-visible/articleengine/internal/workflow"
)

// templateKind identifies which prompt template to use for an instruction,
// selected from its Mode plus heuristic detection of the instruction text.
type templateKind string

const (
	templateKeywordReduction    templateKind = "keyword-reduction"
	templateParagraphExpansion  templateKind = "paragraph-expansion"
	templateAIMarkerRemoval     templateKind = "ai-marker-removal"
	templateRefreshStat         templateKind = "refresh-stat"
	templateGeneric             templateKind = "generic"
)

// selectTemplate picks a template by mode first, then by heuristic keyword
// match on the free-text instruction.
func selectTemplate(instr workflow.RewriteInstruction) templateKind {
	if instr.Mode == "refresh" {
		return templateRefreshStat
	}

	lower := strings.ToLower(instr.Instruction)
	switch {
	case strings.Contains(lower, "keyword") && (strings.Contains(lower, "reduce") || strings.Contains(lower, "overus")):
		return templateKeywordReduction
	case strings.Contains(lower, "expand") || strings.Contains(lower, "short paragraph") || strings.Contains(lower, "word count"):
		return templateParagraphExpansion
	case strings.Contains(lower, "ai") && (strings.Contains(lower, "marker") || strings.Contains(lower, "phrase")):
		return templateAIMarkerRemoval
	case strings.Contains(lower, "statistic") || strings.Contains(lower, "update"):
		return templateRefreshStat
	default:
		return templateGeneric
	}
}

// buildPrompt frames the edit as a minimal, targeted change and includes
// a before/after example per template, per spec §4.3 step 1.
func buildPrompt(kind templateKind, currentText string, instr workflow.RewriteInstruction) string {
	var sb strings.Builder

	switch kind {
	case templateKeywordReduction:
		count, _ := instr.Context["current_count"].(int)
		target, _ := instr.Context["target_range"].(string)
		keyword, _ := instr.Context["keyword"].(string)
		fmt.Fprintf(&sb, "Reduce occurrences of the phrase %q in the text below from %d down to the range %s.\n", keyword, count, target)
		sb.WriteString("Replace excess occurrences with safe semantic variations (synonyms, pronouns, rephrasing) without changing meaning.\n")
		sb.WriteString("Example: \"our widget helps you track widgets\" -> \"our widget helps you track your inventory\".\n")
		sb.WriteString("Make the smallest edit that achieves the target count. Keep all HTML tags exactly as they are.\n\n")

	case templateParagraphExpansion:
		target, _ := instr.Context["target_range"].(string)
		fmt.Fprintf(&sb, "Expand the paragraph below to fall within the word-count range %s.\n", target)
		sb.WriteString("Add concrete, relevant detail; do not pad with filler. Keep all HTML tags exactly as they are.\n\n")

	case templateAIMarkerRemoval:
		fmt.Fprintf(&sb, "Remove stock AI-sounding phrasing from the text below: %v.\n", instr.Context["markers"])
		sb.WriteString("Replace each with natural, specific phrasing. Keep all HTML tags exactly as they are.\n\n")

	case templateRefreshStat:
		sb.WriteString("Update the specific fact/statistic described below, changing only what is necessary:\n")
		sb.WriteString(instr.Instruction + "\n")
		sb.WriteString("Leave the rest of the text untouched. Keep all HTML tags exactly as they are.\n\n")

	default:
		sb.WriteString(instr.Instruction + "\n")
		sb.WriteString("Make the smallest edit that satisfies the instruction. Keep all HTML tags exactly as they are.\n\n")
	}

	sb.WriteString("Text to edit:\n")
	sb.WriteString(currentText)
	sb.WriteString("\n\nRespond with only the edited text, no commentary, no markdown fences.")
	return sb.String()
}
