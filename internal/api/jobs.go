package api

import (
	"encoding/json"
	"net/http"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/ids"
	"github.com/ai-visible/articleengine/internal/workflow"
)

// jobResponse is the shape returned by POST /api/jobs: everything a caller
// needs to know about the finished run without exposing internal fields
// like the prompt or raw LLM output.
type jobResponse struct {
	JobID             string                     `json:"job_id"`
	Article           *article.Output            `json:"article,omitempty"`
	QualityReport     workflow.QualityReport     `json:"quality_report"`
	SimilarityReport  workflow.SimilarityReport  `json:"similarity_report"`
	ExportedArtifacts map[string]string          `json:"exported_artifacts"`
	Errors            []workflow.ErrorRecord     `json:"errors"`
}

// createJob handles POST /api/jobs: runs a new generation job to
// completion and returns the resulting article and its reports.
func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	var cfg article.JobConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if cfg.PrimaryKeyword == "" {
		writeError(w, http.StatusBadRequest, "primary_keyword is required")
		return
	}

	jobID := ids.New("job")

	ec, err := s.Engine.Execute(r.Context(), jobID, cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "pipeline failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, jobResponse{
		JobID:             jobID,
		Article:           ec.Structured,
		QualityReport:     ec.QualityReport,
		SimilarityReport:  ec.SimilarityReport,
		ExportedArtifacts: ec.ExportedArtifacts,
		Errors:            ec.Errors,
	})
}

// refreshRequest is the body POST /api/articles/refresh accepts: an
// existing article plus the job config it was generated under, refreshed
// in place via one or more targeted rewrite instructions.
type refreshRequest struct {
	Article      *article.Output                 `json:"article"`
	JobConfig    article.JobConfig                `json:"job_config"`
	Instructions []workflow.RewriteInstruction    `json:"instructions"`
}

type refreshResponse struct {
	Article       *article.Output        `json:"article"`
	QualityReport workflow.QualityReport `json:"quality_report"`
	Errors        []workflow.ErrorRecord `json:"errors"`
}

// refreshArticle handles POST /api/articles/refresh: applies targeted
// rewrite instructions (e.g. updating a stale statistic) to an already
// published article without running it back through generation.
func (s *Server) refreshArticle(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Article == nil {
		writeError(w, http.StatusBadRequest, "article is required")
		return
	}
	if s.Rewriter == nil {
		writeError(w, http.StatusServiceUnavailable, "refresh is not configured on this deployment")
		return
	}
	for i := range req.Instructions {
		if req.Instructions[i].Mode == "" {
			req.Instructions[i].Mode = "refresh"
		}
	}

	ec := workflow.NewExecutionContext(ids.New("refresh"), req.JobConfig)
	ec.Structured = req.Article

	if err := s.Rewriter.Rewrite(r.Context(), ec, req.Instructions); err != nil {
		writeError(w, http.StatusInternalServerError, "refresh failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		Article: ec.Structured,
		Errors:  ec.Errors,
	})
}
