package quality

import (
	"context"

	"github.com/ai-visible/articleengine/internal/workflow"
)

// Rescorer implements workflow.Rescorer by re-running Score against the
// current draft, used by the engine after a surgical rewrite pass to decide
// whether the quality gate now passes.
type Rescorer struct{}

func (Rescorer) Rescore(_ context.Context, ec *workflow.ExecutionContext) error {
	if ec.Structured == nil {
		return nil
	}
	ec.QualityReport = Score(ec.Structured, ec.JobConfig)
	return nil
}
