package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/workflow"
)

// fakeStage is a minimal workflow.Stage used to drive the engine end to
// end without any real collaborators, mirroring internal/workflow's own
// test fixture.
type fakeStage struct {
	ordinal  int
	name     string
	phase    workflow.Phase
	critical bool
	fn       func(ec *workflow.ExecutionContext) error
}

func (s *fakeStage) Ordinal() int            { return s.ordinal }
func (s *fakeStage) Name() string            { return s.name }
func (s *fakeStage) Phase() workflow.Phase   { return s.phase }
func (s *fakeStage) Critical() bool          { return s.critical }
func (s *fakeStage) Timeout() time.Duration  { return time.Second }
func (s *fakeStage) MaxAttempts() int        { return 1 }
func (s *fakeStage) Execute(_ context.Context, ec *workflow.ExecutionContext) error {
	if s.fn == nil {
		return nil
	}
	return s.fn(ec)
}

func testEngine() *workflow.WorkflowEngine {
	registry := workflow.NewStageRegistry()
	registry.Register(&fakeStage{
		ordinal: 0, name: "generation", phase: workflow.PhasePre, critical: true,
		fn: func(ec *workflow.ExecutionContext) error {
			ec.Structured = &article.Output{Headline: "Widgets Explained"}
			ec.QualityReport = workflow.QualityReport{AEOScore: 90}
			return nil
		},
	})
	return workflow.NewWorkflowEngine(registry)
}

type fakeRewriter struct {
	called bool
}

func (f *fakeRewriter) Rewrite(_ context.Context, ec *workflow.ExecutionContext, instructions []workflow.RewriteInstruction) error {
	f.called = true
	if ec.Structured != nil {
		ec.Structured.Subtitle = "refreshed"
	}
	return nil
}

func TestCreateJob_MissingPrimaryKeywordRejected(t *testing.T) {
	s := NewServer(testEngine(), nil, "")
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	s.createJob(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateJob_HappyPath(t *testing.T) {
	s := NewServer(testEngine(), nil, "")
	body, _ := json.Marshal(article.JobConfig{PrimaryKeyword: "widgets"})
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.createJob(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp jobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Widgets Explained", resp.Article.Headline)
	assert.Equal(t, 90.0, resp.QualityReport.AEOScore)
}

func TestRefreshArticle_RequiresArticleAndRewriter(t *testing.T) {
	s := NewServer(testEngine(), nil, "")
	body, _ := json.Marshal(refreshRequest{})
	req := httptest.NewRequest(http.MethodPost, "/api/articles/refresh", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.refreshArticle(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshArticle_AppliesInstructionsViaRewriter(t *testing.T) {
	rewriter := &fakeRewriter{}
	s := NewServer(testEngine(), rewriter, "")
	body, _ := json.Marshal(refreshRequest{
		Article:      &article.Output{Headline: "Widgets Explained"},
		JobConfig:    article.JobConfig{PrimaryKeyword: "widgets"},
		Instructions: []workflow.RewriteInstruction{{Target: "subtitle"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/articles/refresh", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.refreshArticle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, rewriter.called)
	var resp refreshResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "refreshed", resp.Article.Subtitle)
}
