package quality

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/workflow"
)

func TestRescorer_NilStructuredIsNoOp(t *testing.T) {
	ec := &workflow.ExecutionContext{}
	err := Rescorer{}.Rescore(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, workflow.QualityReport{}, ec.QualityReport)
}

func TestRescorer_ScoresCurrentDraft(t *testing.T) {
	ec := &workflow.ExecutionContext{
		Structured: &article.Output{DirectAnswer: "widgets " + wordString(45) + " [1]"},
		JobConfig:  article.JobConfig{PrimaryKeyword: "widgets"},
	}
	err := Rescorer{}.Rescore(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, Score(ec.Structured, ec.JobConfig), ec.QualityReport)
}
