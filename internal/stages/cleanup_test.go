package stages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/workflow"
)

func TestCleanup_NilStructuredFailsCritically(t *testing.T) {
	s := NewCleanup()
	ec := workflow.NewExecutionContext("job-1", article.JobConfig{})

	err := s.Execute(context.Background(), ec)
	require.Error(t, err)
	var stageErr *workflow.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, workflow.KindInvalidInput, stageErr.Kind)
}

func TestCleanup_BuildsTOCAndRescores(t *testing.T) {
	s := NewCleanup()
	ec := workflow.NewExecutionContext("job-2", article.JobConfig{PrimaryKeyword: "widgets"})
	ec.Structured = &article.Output{
		Sections: []article.Section{
			{Ordinal: 1, Title: "Intro to Widgets", Content: "<p>widgets</p>"},
			{Ordinal: 2, Content: "<p>more</p>"},
		},
	}

	require.NoError(t, s.Execute(context.Background(), ec))

	require.Len(t, ec.Structured.TOC, 2)
	assert.Equal(t, "section-1", ec.Structured.TOC[0].Anchor)
	assert.Equal(t, "Intro to Widgets", ec.Structured.TOC[0].ShortLabel)
	assert.Equal(t, "section-2", ec.Structured.TOC[1].Anchor)
	assert.Equal(t, "Section 2", ec.Structured.TOC[1].ShortLabel)
}

func TestCleanup_FoldsNonFatalErrorsIntoWarnings(t *testing.T) {
	s := NewCleanup()
	ec := workflow.NewExecutionContext("job-3", article.JobConfig{})
	ec.Structured = &article.Output{Sections: []article.Section{{Ordinal: 1, Content: "<p>x</p>"}}}
	ec.RecordError("citations", workflow.KindValidationFailure, "source 1 never cited", false)
	ec.RecordError("internal", workflow.KindCriticalStageFailed, "should not appear", true)

	require.NoError(t, s.Execute(context.Background(), ec))

	found := false
	for _, w := range ec.QualityReport.Warnings {
		if w.Detail == "source 1 never cited" {
			found = true
		}
		assert.NotEqual(t, "should not appear", w.Detail)
	}
	assert.True(t, found)
}
