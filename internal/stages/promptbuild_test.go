package stages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/workflow"
)

func TestPromptBuild_IncludesKeywordAndConstraints(t *testing.T) {
	s := NewPromptBuild()
	cfg := article.JobConfig{PrimaryKeyword: "AI customer service automation", WordCountTarget: 2000, Language: "en"}
	ec := workflow.NewExecutionContext("job-1", cfg)

	require.NoError(t, s.Execute(context.Background(), ec))

	assert.Contains(t, ec.Prompt, `"AI customer service automation"`)
	assert.Contains(t, ec.Prompt, "Headline: 50-60 characters")
	assert.Contains(t, ec.Prompt, "5-8 times")
	assert.Contains(t, ec.Prompt, "em-dash")
	assert.Contains(t, ec.Prompt, "/magazine/{slug}")
}

func TestPromptBuild_IncludesCompanyDataWhenPresent(t *testing.T) {
	s := NewPromptBuild()
	ec := workflow.NewExecutionContext("job-2", article.JobConfig{PrimaryKeyword: "kw"})
	ec.CompanyData = article.CompanyData{Name: "Acme", Domain: "acme.com", Description: "Widgets for everyone"}

	require.NoError(t, s.Execute(context.Background(), ec))

	assert.Contains(t, ec.Prompt, "Acme")
	assert.Contains(t, ec.Prompt, "Widgets for everyone")
}

func TestPromptBuild_IncludesInternalLinkPoolFromSitemapAndSiblings(t *testing.T) {
	s := NewPromptBuild()
	cfg := article.JobConfig{
		PrimaryKeyword: "kw",
		BatchSiblings:  []article.SiblingSummary{{Slug: "/blog/prior-article", Title: "Prior Article"}},
	}
	ec := workflow.NewExecutionContext("job-3", cfg)
	ec.SitemapData = []article.SitemapEntry{{Slug: "widgets-101", Title: "Widgets 101"}}

	require.NoError(t, s.Execute(context.Background(), ec))

	assert.Contains(t, ec.Prompt, "/magazine/widgets-101: Widgets 101")
	assert.Contains(t, ec.Prompt, "/magazine/prior-article: Prior Article")
}

func TestPromptBuild_OmitsLinkPoolSectionWhenEmpty(t *testing.T) {
	s := NewPromptBuild()
	ec := workflow.NewExecutionContext("job-4", article.JobConfig{PrimaryKeyword: "kw"})

	require.NoError(t, s.Execute(context.Background(), ec))

	assert.NotContains(t, ec.Prompt, "Internal-link candidates")
}

func TestPromptBuild_RegenerationAttemptForegroundsCriticalIssues(t *testing.T) {
	s := NewPromptBuild()
	ec := workflow.NewExecutionContext("job-5", article.JobConfig{PrimaryKeyword: "kw"})
	ec.RegenerationAttempt = 1
	ec.QualityReport.CriticalIssues = []workflow.Issue{
		{Kind: "keyword_overuse", Field: "sections", Detail: "keyword appears 27 times"},
	}

	require.NoError(t, s.Execute(context.Background(), ec))

	assert.Contains(t, ec.Prompt, "This is a regeneration attempt")
	assert.Contains(t, ec.Prompt, "keyword appears 27 times")
}

func TestPromptBuild_FirstAttemptOmitsRegenerationNote(t *testing.T) {
	s := NewPromptBuild()
	ec := workflow.NewExecutionContext("job-6", article.JobConfig{PrimaryKeyword: "kw"})

	require.NoError(t, s.Execute(context.Background(), ec))

	assert.NotContains(t, ec.Prompt, "regeneration attempt")
}

func TestPromptBuild_Defaults(t *testing.T) {
	s := NewPromptBuild()
	assert.Equal(t, 1, s.Ordinal())
	assert.Equal(t, "prompt-build", s.Name())
	assert.Equal(t, workflow.PhasePre, s.Phase())
	assert.True(t, s.Critical())
}
