package stages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/workflow"
)

type fakeRewriter struct {
	called       bool
	instructions []workflow.RewriteInstruction
	err          error
}

func (f *fakeRewriter) Rewrite(_ context.Context, ec *workflow.ExecutionContext, instructions []workflow.RewriteInstruction) error {
	f.called = true
	f.instructions = instructions
	if f.err != nil {
		return f.err
	}
	return nil
}

func TestQualityRefinement_NilStructuredIsNoOp(t *testing.T) {
	s := NewQualityRefinement(nil)
	ec := workflow.NewExecutionContext("job-1", article.JobConfig{})
	require.NoError(t, s.Execute(context.Background(), ec))
	assert.Equal(t, workflow.QualityReport{}, ec.QualityReport)
}

func TestQualityRefinement_NormalizesAndScoresWithoutRewriter(t *testing.T) {
	s := NewQualityRefinement(nil)
	ec := workflow.NewExecutionContext("job-2", article.JobConfig{PrimaryKeyword: "widgets"})
	ec.Structured = &article.Output{
		Intro: "<p>Widgets are great--truly.</p>",
		Sections: []article.Section{
			{Ordinal: 1, Content: `<p>See <a href="/blog/widgets">widgets</a>.</p>`},
		},
	}

	require.NoError(t, s.Execute(context.Background(), ec))

	assert.Contains(t, ec.Structured.Sections[0].Content, "/magazine/widgets")
	assert.NotContains(t, ec.Structured.Intro, "--")
	assert.NotEqual(t, workflow.QualityReport{}, ec.QualityReport)
}

func TestQualityRefinement_InvokesRewriterWhenIssuesDetected(t *testing.T) {
	rewriter := &fakeRewriter{}
	s := NewQualityRefinement(rewriter)
	ec := workflow.NewExecutionContext("job-3", article.JobConfig{PrimaryKeyword: "widgets"})
	ec.Structured = &article.Output{
		Sections: []article.Section{
			{Ordinal: 1, Content: "<p>Too short.</p>"},
		},
	}

	require.NoError(t, s.Execute(context.Background(), ec))

	assert.True(t, rewriter.called)
	assert.NotEmpty(t, rewriter.instructions)
}

func TestQualityRefinement_RewriterFailureRecordsNonFatalError(t *testing.T) {
	rewriter := &fakeRewriter{err: assertErr{}}
	s := NewQualityRefinement(rewriter)
	ec := workflow.NewExecutionContext("job-4", article.JobConfig{PrimaryKeyword: "widgets"})
	ec.Structured = &article.Output{
		Sections: []article.Section{
			{Ordinal: 1, Content: "<p>Too short.</p>"},
		},
	}

	err := s.Execute(context.Background(), ec)
	require.NoError(t, err)
	require.Len(t, ec.Errors, 1)
	assert.False(t, ec.Errors[0].Fatal)
}

type assertErr struct{}

func (assertErr) Error() string { return "rewrite failed" }
