package stages

import (
	"context"
	"time"

	"github.com/ai-visible/articleengine/internal/htmlutil"
	"github.com/ai-visible/articleengine/internal/linkutil"
	"github.com/ai-visible/articleengine/internal/quality"
	"github.com/ai-visible/articleengine/internal/workflow"
)

// QualityRefinement is the Quality-Refinement stage (spec §4.2, non-critical).
// It always applies deterministic normalization and scoring. When issues
// remain and a Rewriter is set, it invokes the RewriteEngine once with an
// instruction for each issue that quality.BuildInstruction has a template
// for; issues without one are left for the quality gate.
type QualityRefinement struct {
	base
	Rewriter workflow.Rewriter
}

var _ workflow.Stage = (*QualityRefinement)(nil)

// NewQualityRefinement creates the Quality-Refinement stage at ordinal 3.
// rewriter may be nil, in which case only normalization and scoring run.
func NewQualityRefinement(rewriter workflow.Rewriter) *QualityRefinement {
	return &QualityRefinement{
		base: base{
			ordinal: 3, name: "quality-refinement", phase: workflow.PhasePre,
			critical: false, timeout: 30 * time.Second, maxAttempts: criticalDefaults(false, 0),
		},
		Rewriter: rewriter,
	}
}

func (s *QualityRefinement) Execute(ctx context.Context, ec *workflow.ExecutionContext) error {
	if ec.Structured == nil {
		return nil
	}

	s.normalize(ec)

	issues := quality.DetectIssues(ec.Structured, ec.JobConfig.PrimaryKeyword)
	if len(issues) > 0 && s.Rewriter != nil {
		instructions := make([]workflow.RewriteInstruction, 0, len(issues))
		for _, issue := range issues {
			instr, ok := quality.BuildInstruction(issue, ec.JobConfig.PrimaryKeyword)
			if ok {
				instructions = append(instructions, instr)
			}
		}
		if len(instructions) > 0 {
			if err := s.Rewriter.Rewrite(ctx, ec, instructions); err != nil {
				ec.RecordError(s.name, workflow.KindValidationFailure, "pre-pass rewrite failed, leaving draft for the quality gate: "+err.Error(), false)
			}
		}
	}

	ec.QualityReport = quality.Score(ec.Structured, ec.JobConfig)
	return nil
}

// normalize applies deterministic, non-LLM cleanup: em-dash/punctuation
// normalization and internal-link canonicalization on content fields, and
// tag-stripping on plain-text fields. This half always runs, independent of
// whether a rewrite pass follows.
func (s *QualityRefinement) normalize(ec *workflow.ExecutionContext) {
	o := ec.Structured

	for name, value := range o.ContentFields() {
		cleaned := htmlutil.Normalize(value)
		cleaned = htmlutil.RewriteHrefs(cleaned, linkutil.NormalizeHref)
		o.SetContentField(name, cleaned)
	}

	for name, value := range o.PlainTextFields() {
		o.SetPlainTextField(name, htmlutil.Normalize(htmlutil.StripTags(value)))
	}
}
