package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ai-visible/articleengine/internal/article"
)

// Rewriter is the surface the quality gate uses to apply a surgical pass.
// Implemented by internal/rewrite.RewriteEngine; declared here to avoid a
// cyclic dependency between workflow and rewrite.
type Rewriter interface {
	Rewrite(ctx context.Context, ec *ExecutionContext, instructions []RewriteInstruction) error
}

// Rescorer re-runs the deterministic AEO scorer against the current
// structured article without touching normalization or rewriting.
type Rescorer interface {
	Rescore(ctx context.Context, ec *ExecutionContext) error
}

// InstructionBuilder maps a critical issue to a concrete RewriteInstruction,
// returning ok=false when no template covers the issue's kind.
type InstructionBuilder func(issue Issue, ec *ExecutionContext) (RewriteInstruction, bool)

// WorkflowEngine executes a registered pipeline over a single
// ExecutionContext, honoring phase boundaries, retries, timeouts, and the
// quality gate.
type WorkflowEngine struct {
	Registry            *StageRegistry
	Backoff             BackoffPolicy
	ParallelConcurrency int
	Rewriter            Rewriter
	Rescorer            Rescorer
	BuildInstruction    InstructionBuilder
}

// NewWorkflowEngine creates an engine with teacher-matching defaults.
func NewWorkflowEngine(registry *StageRegistry) *WorkflowEngine {
	return &WorkflowEngine{
		Registry:            registry,
		Backoff:             DefaultBackoffPolicy,
		ParallelConcurrency: 8,
	}
}

// Execute runs the registered pipeline for one job. It fails with
// PipelineError only if a critical stage fails after exhausting retries;
// otherwise it always returns a context, with ctx.errors populated for
// non-fatal failures.
func (e *WorkflowEngine) Execute(ctx context.Context, jobID string, cfg article.JobConfig) (*ExecutionContext, error) {
	ec := NewExecutionContext(jobID, cfg)

	pre, parallel, post := e.Registry.Grouped()

	promptBuildIdx := indexOfName(pre, "prompt-build")

	if err := e.runSequential(ctx, ec, pre); err != nil {
		return ec, err
	}

	for {
		if err := e.runParallel(ctx, ec, parallel); err != nil {
			return ec, err
		}

		decision := EvaluateQualityGate(ec, ec.JobConfig, ec.SurgicalPasses, ec.RegenerationAttempt, e.instructionBuilder(ec))

		switch decision.Kind {
		case DecisionAccept:
			ec.QualityReport.QualityGateFailed = false
			goto postPhase

		case DecisionSurgical:
			ec.SurgicalPasses++
			if e.Rewriter != nil {
				if err := e.Rewriter.Rewrite(ctx, ec, decision.Instructions); err != nil {
					ec.RecordError("quality-gate", KindValidationFailure, err.Error(), false)
				}
			}
			if e.Rescorer != nil {
				if err := e.Rescorer.Rescore(ctx, ec); err != nil {
					ec.RecordError("quality-gate", KindStageException, err.Error(), false)
				}
			}
			continue

		case DecisionRegenerate:
			ec.RegenerationAttempt++
			ec.SurgicalPasses = 0
			if promptBuildIdx >= 0 {
				if err := e.runSequential(ctx, ec, pre[promptBuildIdx:]); err != nil {
					return ec, err
				}
			}
			continue

		case DecisionExhaust:
			ec.QualityReport.QualityGateFailed = true
			ec.RecordError("quality-gate", KindQualityGateExhausted, "quality gate exhausted regeneration and surgical passes", false)
			goto postPhase
		}
	}

postPhase:
	if err := e.runSequential(ctx, ec, post); err != nil {
		return ec, err
	}
	return ec, nil
}

func (e *WorkflowEngine) instructionBuilder(ec *ExecutionContext) func(Issue) (RewriteInstruction, bool) {
	return func(issue Issue) (RewriteInstruction, bool) {
		if e.BuildInstruction == nil {
			return RewriteInstruction{}, false
		}
		return e.BuildInstruction(issue, ec)
	}
}

func indexOfName(stages []Stage, name string) int {
	for i, s := range stages {
		if s.Name() == name {
			return i
		}
	}
	return -1
}

// runSequential runs stages in order, honoring strict happens-before: each
// stage observes every earlier stage's writes.
func (e *WorkflowEngine) runSequential(ctx context.Context, ec *ExecutionContext, stages []Stage) error {
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil // cooperative cancellation: finish current batch, don't start new stages
		}
		if err := e.runWithRetry(ctx, ec, stage); err != nil {
			if stage.Critical() {
				return &PipelineError{Stage: stage.Name(), Kind: KindCriticalStageFailed, Err: err}
			}
		}
	}
	return nil
}

// runParallel runs the parallel phase with bounded concurrency. It awaits
// all stages; a non-critical stage's error is recorded and the engine
// continues, a critical stage's error is recorded and, after all others
// finish, raised as PipelineError.
func (e *WorkflowEngine) runParallel(ctx context.Context, ec *ExecutionContext, stages []Stage) error {
	if len(stages) == 0 {
		return nil
	}

	degree := e.ParallelConcurrency
	if degree <= 0 || degree > len(stages) {
		degree = len(stages)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(degree)

	var criticalErr *PipelineError

	for _, stage := range stages {
		stage := stage
		g.Go(func() error {
			if err := e.runWithRetry(gctx, ec, stage); err != nil {
				if stage.Critical() {
					criticalErr = &PipelineError{Stage: stage.Name(), Kind: KindCriticalStageFailed, Err: err}
				}
			}
			return nil // errors are recorded on ec, never propagated through errgroup
		})
	}

	_ = g.Wait()

	if criticalErr != nil {
		return criticalErr
	}
	return nil
}

// runWithRetry executes a single stage attempt-by-attempt with exponential
// backoff and a per-attempt deadline, recording every failure on ec.
func (e *WorkflowEngine) runWithRetry(ctx context.Context, ec *ExecutionContext, stage Stage) error {
	maxAttempts := stage.MaxAttempts()
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var lastErr error
	start := time.Now()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		attemptCtx := ctx
		var cancel context.CancelFunc
		if d := stage.Timeout(); d > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, d)
		}

		err := stage.Execute(attemptCtx, ec)

		if cancel != nil {
			cancel()
		}

		if err == nil {
			ec.RecordDuration(stage.Name(), time.Since(start))
			return nil
		}

		kind := KindStageException
		if attemptCtx.Err() == context.DeadlineExceeded {
			kind = KindStageTimeout
			err = fmt.Errorf("stage %q timed out after %s: %w", stage.Name(), stage.Timeout(), err)
		}
		var se *StageError
		if errors.As(err, &se) {
			kind = se.Kind
		}

		lastErr = err
		fatal := stage.Critical() && attempt == maxAttempts-1
		ec.RecordError(stage.Name(), kind, err.Error(), fatal)

		if attempt < maxAttempts-1 {
			slog.Warn("stage attempt failed, backing off", "stage", stage.Name(), "attempt", attempt+1, "err", err)
			sleep(ctx, e.Backoff, attempt)
		}
	}

	ec.RecordDuration(stage.Name(), time.Since(start))
	return lastErr
}
