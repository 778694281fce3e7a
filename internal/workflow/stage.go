package workflow

import (
	"context"
	"sort"
	"time"
)

// Phase is the execution group a Stage belongs to.
type Phase string

const (
	PhasePre      Phase = "pre"
	PhaseParallel Phase = "parallel"
	PhasePost     Phase = "post"
)

// Stage is a single step of the pipeline.
type Stage interface {
	Ordinal() int
	Name() string
	Phase() Phase
	Critical() bool
	Timeout() time.Duration
	MaxAttempts() int
	Execute(ctx context.Context, ec *ExecutionContext) error
}

// StageRegistry holds the pipeline's registered stages. Registration is
// data, not a side effect: stages are explicitly passed in and grouped by
// phase at Grouped() time, never discovered via package init.
type StageRegistry struct {
	byOrdinal map[int]Stage
}

// NewStageRegistry creates an empty registry.
func NewStageRegistry() *StageRegistry {
	return &StageRegistry{byOrdinal: make(map[int]Stage)}
}

// Register adds or replaces the stage at its ordinal. Idempotent: the last
// registration for a given ordinal wins.
func (r *StageRegistry) Register(stages ...Stage) {
	for _, s := range stages {
		r.byOrdinal[s.Ordinal()] = s
	}
}

// Grouped returns the registered stages split into pre/parallel/post,
// each sorted by ordinal.
func (r *StageRegistry) Grouped() (pre, parallel, post []Stage) {
	ordinals := make([]int, 0, len(r.byOrdinal))
	for o := range r.byOrdinal {
		ordinals = append(ordinals, o)
	}
	sort.Ints(ordinals)

	for _, o := range ordinals {
		s := r.byOrdinal[o]
		switch s.Phase() {
		case PhasePre:
			pre = append(pre, s)
		case PhaseParallel:
			parallel = append(parallel, s)
		case PhasePost:
			post = append(post, s)
		}
	}
	return pre, parallel, post
}
