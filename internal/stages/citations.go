package stages

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/collab"
	"github.com/ai-visible/articleengine/internal/htmlutil"
	"github.com/ai-visible/articleengine/internal/workflow"
)

// Citations is the Citations stage (spec §4.2, parallel, non-critical): it
// resolves every [N] marker in content against ec.Structured.Sources,
// publishes ctx.Structured.CitationMap, and flags broken/unreachable source
// URLs through an injected URLHealthChecker.
type Citations struct {
	base
	HealthChecker collab.URLHealthChecker
	HealthTimeout time.Duration
}

var _ workflow.Stage = (*Citations)(nil)

// NewCitations creates the Citations stage at ordinal 4. checker may be nil,
// in which case marker/source resolution still runs but URLs are not probed.
func NewCitations(checker collab.URLHealthChecker) *Citations {
	return &Citations{
		base: base{
			ordinal: 4, name: "citations", phase: workflow.PhaseParallel,
			critical: false, timeout: 15 * time.Second, maxAttempts: criticalDefaults(false, 0),
		},
		HealthChecker: checker,
		HealthTimeout: 5 * time.Second,
	}
}

func (s *Citations) Execute(ctx context.Context, ec *workflow.ExecutionContext) error {
	if ec.Structured == nil {
		return nil
	}
	o := ec.Structured

	citationMap := make(map[int]string, len(o.Sources))
	for _, src := range o.Sources {
		citationMap[src.ID] = src.URL
	}

	usedMarkers := map[int]bool{}
	for _, text := range o.ContentFields() {
		for _, n := range htmlutil.CitationMarkers(text) {
			usedMarkers[n] = true
			if _, ok := citationMap[n]; !ok {
				ec.RecordError(s.name, workflow.KindValidationFailure,
					fmt.Sprintf("citation marker [%d] has no matching source", n), false)
			}
		}
	}
	for _, src := range o.Sources {
		if !usedMarkers[src.ID] {
			ec.RecordError(s.name, workflow.KindValidationFailure,
				fmt.Sprintf("source %d (%s) is never cited in the body", src.ID, src.URL), false)
		}
	}

	o.CitationMap = citationMap

	if s.HealthChecker != nil && len(o.Sources) > 0 {
		s.checkHealth(ctx, ec, o.Sources)
	}

	return nil
}

// checkHealth probes every source URL concurrently, at most 10 at a time,
// recording a warning for each unreachable or error-status source.
func (s *Citations) checkHealth(ctx context.Context, ec *workflow.ExecutionContext, sources []article.Source) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(10)

	for _, src := range sources {
		src := src
		if src.URL == "" {
			continue
		}
		g.Go(func() error {
			result, err := s.HealthChecker.Check(gctx, src.URL, s.HealthTimeout)
			if err != nil {
				ec.RecordError(s.name, workflow.KindUpstreamError,
					fmt.Sprintf("source %d (%s) health check failed: %v", src.ID, src.URL, err), false)
				return nil
			}
			if !result.OK {
				ec.RecordError(s.name, workflow.KindValidationFailure,
					fmt.Sprintf("source %d (%s) returned status %d", src.ID, src.URL, result.StatusCode), false)
			}
			return nil
		})
	}

	_ = g.Wait()
}
