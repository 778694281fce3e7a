package stages

import (
	"context"
	"strings"
	"time"

	"github.com/ai-visible/articleengine/internal/simhash"
	"github.com/ai-visible/articleengine/internal/workflow"
)

// SimilarityCheck is the Similarity-Check stage (spec §4.2, parallel,
// non-critical): fingerprints the draft and compares it against every
// sibling in the batch, publishing ctx.similarity_report. It is the sole
// writer of that field, so it needs no lock despite running in the
// parallel phase.
type SimilarityCheck struct {
	base
}

var _ workflow.Stage = (*SimilarityCheck)(nil)

// NewSimilarityCheck creates the Similarity-Check stage at ordinal 7.
func NewSimilarityCheck() *SimilarityCheck {
	return &SimilarityCheck{base: base{
		ordinal: 7, name: "similarity-check", phase: workflow.PhaseParallel,
		critical: false, timeout: 5 * time.Second, maxAttempts: criticalDefaults(false, 0),
	}}
}

func (s *SimilarityCheck) Execute(_ context.Context, ec *workflow.ExecutionContext) error {
	if ec.Structured == nil || len(ec.JobConfig.BatchSiblings) == 0 {
		return nil
	}

	var b strings.Builder
	for _, field := range ec.Structured.ContentFields() {
		b.WriteString(field)
		b.WriteString(" ")
	}
	fp := simhash.Fingerprint(b.String())

	var maxSim float64
	var mostSimilarID string
	var duplicate bool

	for _, sib := range ec.JobConfig.BatchSiblings {
		if sib.Fingerprint == 0 {
			continue
		}
		distance := simhash.HammingDistance(fp, sib.Fingerprint)
		similarity := 1 - float64(distance)/64
		if similarity > maxSim {
			maxSim = similarity
			mostSimilarID = sib.ID
			duplicate = simhash.IsDuplicate(fp, sib.Fingerprint)
		}
	}

	ec.SimilarityReport = workflow.SimilarityReport{
		MaxSimilarity:        maxSim,
		MostSimilarSiblingID: mostSimilarID,
		IsDuplicate:          duplicate,
	}

	if duplicate {
		ec.RecordError(s.name, workflow.KindValidationFailure,
			"draft is a near-duplicate of a prior sibling in this batch", false)
	}

	return nil
}
