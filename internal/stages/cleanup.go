package stages

import (
	"context"
	"fmt"
	"time"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/quality"
	"github.com/ai-visible/articleengine/internal/workflow"
)

// Cleanup is the Cleanup stage (spec §4.2, post, critical): it is the last
// stage guaranteed to run before export, so it is the stage that fails the
// whole job if no structured article ever survived the pipeline. It builds
// the final table of contents and re-scores the draft so quality_report
// reflects every parallel-phase mutation (CitationMap, InternalLinks).
type Cleanup struct {
	base
}

var _ workflow.Stage = (*Cleanup)(nil)

// NewCleanup creates the Cleanup stage at ordinal 8.
func NewCleanup() *Cleanup {
	return &Cleanup{base: base{
		ordinal: 8, name: "cleanup", phase: workflow.PhasePost,
		critical: true, timeout: 10 * time.Second, maxAttempts: criticalDefaults(true, 0),
	}}
}

func (s *Cleanup) Execute(_ context.Context, ec *workflow.ExecutionContext) error {
	if ec.Structured == nil {
		return workflow.NewStageError(s.name, workflow.KindInvalidInput,
			fmt.Errorf("no structured article survived the pipeline"))
	}
	o := ec.Structured

	toc := make([]article.TOCEntry, 0, len(o.Sections))
	for _, sec := range o.Sections {
		label := sec.Title
		if label == "" {
			label = fmt.Sprintf("Section %d", sec.Ordinal)
		}
		toc = append(toc, article.TOCEntry{
			Anchor:     fmt.Sprintf("section-%d", sec.Ordinal),
			ShortLabel: label,
		})
	}
	o.TOC = toc

	gateFailed := ec.QualityReport.QualityGateFailed
	ec.QualityReport = quality.Score(o, ec.JobConfig)
	ec.QualityReport.QualityGateFailed = gateFailed
	ec.QualityReport.Warnings = append(ec.QualityReport.Warnings, warningsFromErrors(ec)...)

	return nil
}

// warningsFromErrors folds non-fatal stage errors recorded during the
// parallel phase (broken citations, thin internal linking, near-duplicate
// content) into the final quality report as warnings, so a caller reading
// quality_report alone still sees them.
func warningsFromErrors(ec *workflow.ExecutionContext) []workflow.Issue {
	warnings := make([]workflow.Issue, 0, len(ec.Errors))
	for _, e := range ec.Errors {
		if e.Fatal {
			continue
		}
		warnings = append(warnings, workflow.Issue{Kind: string(e.Kind), Field: e.Stage, Detail: e.Message})
	}
	return warnings
}
