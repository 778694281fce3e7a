package stages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/llm"
	"github.com/ai-visible/articleengine/internal/workflow"
)

type fakeLLMClient struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLMClient) Generate(_ context.Context, _ llm.Request) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

const validGenerationJSON = `{
  "headline": "How AI Customer Service Automation Changes Support Teams",
  "subtitle": "A practical look at automated support",
  "teaser": "See what changes when bots answer first",
  "meta_title": "AI Customer Service Automation Guide",
  "meta_description": "A thorough explainer of AI customer service automation covering rollout, staffing impact, and measurable outcomes for support teams.",
  "direct_answer": "AI customer service automation routes and answers routine tickets automatically, freeing agents for complex cases [1]. Most teams see faster response times within weeks.",
  "intro": "<p>Support teams are adopting AI customer service automation to cut response times and triage volume before a human ever sees a ticket, and the early results are measurable across industries.</p>",
  "section_01_title": "What Is AI Customer Service Automation",
  "section_01_content": "<p>It is the use of models to triage, draft, and resolve tickets automatically.</p>",
  "faq": [{"question": "Does it replace agents?", "answer": "No, it handles routine volume."}],
  "sources": [{"id": 1, "url": "https://example.com/study", "title": "Support Automation Study"}]
}`

func TestGeneration_PublishesStructuredArticle(t *testing.T) {
	client := &fakeLLMClient{response: validGenerationJSON}
	s := NewGeneration(client)
	ec := workflow.NewExecutionContext("job-1", article.JobConfig{PrimaryKeyword: "AI customer service automation"})
	ec.Prompt = "write the article"

	err := s.Execute(context.Background(), ec)

	require.NoError(t, err)
	assert.Equal(t, validGenerationJSON, ec.RawArticle)
	require.NotNil(t, ec.Structured)
	assert.Equal(t, "How AI Customer Service Automation Changes Support Teams", ec.Structured.Headline)
	require.Len(t, ec.Structured.Sections, 1)
	assert.Equal(t, "What Is AI Customer Service Automation", ec.Structured.Sections[0].Title)
	require.Len(t, ec.Structured.Sources, 1)
	assert.Equal(t, "https://example.com/study", ec.Structured.Sources[0].URL)
}

func TestGeneration_StripsMarkdownFence(t *testing.T) {
	client := &fakeLLMClient{response: "```json\n" + validGenerationJSON + "\n```"}
	s := NewGeneration(client)
	ec := workflow.NewExecutionContext("job-2", article.JobConfig{})

	require.NoError(t, s.Execute(context.Background(), ec))
	require.NotNil(t, ec.Structured)
}

func TestGeneration_LLMErrorWrappedAsUpstreamError(t *testing.T) {
	client := &fakeLLMClient{err: errors.New("connection reset")}
	s := NewGeneration(client)
	ec := workflow.NewExecutionContext("job-3", article.JobConfig{})

	err := s.Execute(context.Background(), ec)

	require.Error(t, err)
	var stageErr *workflow.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, workflow.KindUpstreamError, stageErr.Kind)
}

func TestGeneration_InvalidJSONIsSchemaViolation(t *testing.T) {
	client := &fakeLLMClient{response: "not json at all"}
	s := NewGeneration(client)
	ec := workflow.NewExecutionContext("job-4", article.JobConfig{})

	err := s.Execute(context.Background(), ec)

	require.Error(t, err)
	var stageErr *workflow.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, workflow.KindSchemaViolation, stageErr.Kind)
	assert.Nil(t, ec.Structured)
}

func TestGeneration_MissingRequiredFieldIsSchemaViolation(t *testing.T) {
	client := &fakeLLMClient{response: `{"headline": "Too short"}`}
	s := NewGeneration(client)
	ec := workflow.NewExecutionContext("job-5", article.JobConfig{})

	err := s.Execute(context.Background(), ec)

	require.Error(t, err)
	var stageErr *workflow.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, workflow.KindSchemaViolation, stageErr.Kind)
}

func TestGeneration_MissingSection01IsSchemaViolation(t *testing.T) {
	client := &fakeLLMClient{response: `{
		"headline": "How AI Customer Service Automation Changes Support Teams",
		"subtitle": "x", "teaser": "x", "meta_title": "x", "meta_description": "x",
		"direct_answer": "x", "intro": "x"
	}`}
	s := NewGeneration(client)
	ec := workflow.NewExecutionContext("job-6", article.JobConfig{})

	err := s.Execute(context.Background(), ec)

	require.Error(t, err)
}

func TestGeneration_OptionalSectionsPreserveTypedListsAndMaps(t *testing.T) {
	wireJSON := `{
		"headline": "How AI Customer Service Automation Changes Support Teams",
		"subtitle": "x", "teaser": "x", "meta_title": "x",
		"meta_description": "A meta description that is long enough to satisfy the minimum required character count for this field.",
		"direct_answer": "x", "intro": "x",
		"section_01_title": "Intro", "section_01_content": "<p>one</p>",
		"section_02_title": "Second", "section_02_content": "<p>two</p>",
		"faq": [{"question": "q1", "answer": "a1"}, {"question": "q2", "answer": "a2"}],
		"tables": [{"title": "Comparison", "headers": ["A", "B"], "rows": [["1", "2"]]}],
		"sources": [{"id": 1, "url": "https://example.com/a", "title": "A"}]
	}`
	client := &fakeLLMClient{response: wireJSON}
	s := NewGeneration(client)
	ec := workflow.NewExecutionContext("job-7", article.JobConfig{})

	require.NoError(t, s.Execute(context.Background(), ec))

	require.Len(t, ec.Structured.Sections, 2)
	require.Len(t, ec.Structured.FAQ, 2)
	require.Len(t, ec.Structured.Tables, 1)
	assert.Equal(t, []string{"A", "B"}, ec.Structured.Tables[0].Headers)
	assert.Equal(t, [][]string{{"1", "2"}}, ec.Structured.Tables[0].Rows)
}

func TestGeneration_DefaultsAndTimeout(t *testing.T) {
	s := NewGeneration(&fakeLLMClient{})
	assert.Equal(t, 2, s.Ordinal())
	assert.Equal(t, "generation", s.Name())
	assert.Equal(t, workflow.PhasePre, s.Phase())
	assert.True(t, s.Critical())
	assert.Equal(t, 90*time.Second, s.Timeout())
}
