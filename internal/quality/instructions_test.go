package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ai-visible/articleengine/internal/workflow"
)

func TestBuildInstruction_KeywordOveruse(t *testing.T) {
	issue := workflow.Issue{Kind: "keyword_overuse", Detail: `"widgets" appears 12 times`}
	instr, ok := BuildInstruction(issue, "widgets")
	assert.True(t, ok)
	assert.Equal(t, "all_sections", instr.Target)
	assert.Equal(t, "quality_fix", instr.Mode)
	assert.Equal(t, 12, instr.Context["current_count"])
}

func TestBuildInstruction_ShortParagraph(t *testing.T) {
	issue := workflow.Issue{Kind: "short_paragraph", Field: "section_01_content"}
	instr, ok := BuildInstruction(issue, "widgets")
	assert.True(t, ok)
	assert.Equal(t, "section_01_content", instr.Target)
}

func TestBuildInstruction_AIMarkers(t *testing.T) {
	issue := workflow.Issue{Kind: "ai_markers", Field: "intro", Detail: `found "delve" and "tapestry"`}
	instr, ok := BuildInstruction(issue, "")
	assert.True(t, ok)
	markers, ok := instr.Context["markers"].([]string)
	assert.True(t, ok)
	assert.ElementsMatch(t, []string{`"delve"`, `"tapestry"`}, markers)
}

func TestBuildInstruction_OutdatedStatistic(t *testing.T) {
	issue := workflow.Issue{Kind: "outdated_statistic", Field: "section_02_content"}
	instr, ok := BuildInstruction(issue, "")
	assert.True(t, ok)
	assert.Equal(t, "section_02_content", instr.Target)
}

func TestBuildInstruction_UnknownKindFalls(t *testing.T) {
	issue := workflow.Issue{Kind: "duplicate_article"}
	_, ok := BuildInstruction(issue, "")
	assert.False(t, ok)
}

func TestCountFromDetail(t *testing.T) {
	assert.Equal(t, 7, countFromDetail(`"widgets" appears 7 times`))
	assert.Equal(t, 0, countFromDetail("no count here"))
}
