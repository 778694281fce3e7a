// Package workflow implements the pipeline scheduler: a registry of Stages
// grouped into pre/parallel/post phases, driven over a single shared
// ExecutionContext, with per-stage retry/backoff, timeouts, and a quality
// gate that can accept, surgically rewrite, or regenerate the article.
package workflow

import (
	"sync"
	"time"

	"github.com/ai-visible/articleengine/internal/article"
)

// Issue is one entry of quality_report.critical_issues / warnings.
type Issue struct {
	Kind   string `json:"kind"`
	Field  string `json:"field"`
	Detail string `json:"detail"`
}

// QualityReport is ctx.quality_report.
type QualityReport struct {
	AEOScore          float64            `json:"aeo_score"`
	CriticalIssues    []Issue            `json:"critical_issues"`
	Warnings          []Issue            `json:"warnings"`
	ComponentScores   map[string]float64 `json:"component_scores"`
	QualityGateFailed bool               `json:"quality_gate_failed"`
}

// SimilarityReport is ctx.similarity_report.
type SimilarityReport struct {
	MaxSimilarity        float64 `json:"max_similarity"`
	MostSimilarSiblingID string  `json:"most_similar_sibling_id"`
	IsDuplicate           bool   `json:"is_duplicate"`
}

// ExecutionContext is the mutable shared record carried through every stage.
// It is not safe for concurrent use except within the parallel phase, where
// each stage writes a disjoint key of ParallelResults — see the engine's
// concurrency model.
type ExecutionContext struct {
	JobID string

	JobConfig   article.JobConfig
	CompanyData article.CompanyData
	SitemapData []article.SitemapEntry

	Prompt      string
	RawArticle  string
	Structured  *article.Output

	ParallelResults map[string]any

	SimilarityReport SimilarityReport
	QualityReport    QualityReport

	ExecutionTimes map[string]time.Duration
	Errors         []ErrorRecord

	ExportedArtifacts map[string]string

	// RegenerationAttempt counts full generation restarts (0 for the first
	// generation, incremented each time the quality gate asks for
	// regeneration); SurgicalPasses counts rewrite
	// passes applied to the current draft and resets on regeneration.
	RegenerationAttempt int
	SurgicalPasses      int

	mu sync.Mutex
}

// NewExecutionContext creates an empty context for the given job.
func NewExecutionContext(jobID string, cfg article.JobConfig) *ExecutionContext {
	return &ExecutionContext{
		JobID:             jobID,
		JobConfig:         cfg,
		ParallelResults:   make(map[string]any),
		ExecutionTimes:    make(map[string]time.Duration),
		ExportedArtifacts: make(map[string]string),
	}
}

// RecordError appends an error record. Safe to call from parallel stages
// since each holds the context's mutex only for the duration of this call.
func (ec *ExecutionContext) RecordError(stage string, kind ErrorKind, message string, fatal bool) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.Errors = append(ec.Errors, ErrorRecord{Stage: stage, Kind: kind, Message: message, Fatal: fatal})
}

// RecordDuration sets execution_times[stage]; later calls for the same
// stage (retries) overwrite with the latest attempt's duration.
func (ec *ExecutionContext) RecordDuration(stage string, d time.Duration) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.ExecutionTimes[stage] = d
}

// SetParallelResult publishes a parallel stage's artifact under its own
// name. Each parallel stage only ever calls this with its own name, so
// writes are disjoint by construction; the lock only guards the map itself.
func (ec *ExecutionContext) SetParallelResult(stage string, value any) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.ParallelResults[stage] = value
}

// ParallelResult reads a published parallel artifact.
func (ec *ExecutionContext) ParallelResult(stage string) (any, bool) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	v, ok := ec.ParallelResults[stage]
	return v, ok
}
