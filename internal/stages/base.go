// Package stages implements the ten canonical pipeline stages named in
// spec §4.2, each satisfying the workflow.Stage interface.
package stages

import (
	"time"

	"github.com/ai-visible/articleengine/internal/workflow"
)

// base carries the declarative fields every Stage shares (ordinal, name,
// phase, criticality, timeout, retry budget), letting each concrete stage
// embed it and implement only Execute.
type base struct {
	ordinal     int
	name        string
	phase       workflow.Phase
	critical    bool
	timeout     time.Duration
	maxAttempts int
}

func (b base) Ordinal() int             { return b.ordinal }
func (b base) Name() string             { return b.name }
func (b base) Phase() workflow.Phase    { return b.phase }
func (b base) Critical() bool           { return b.critical }
func (b base) Timeout() time.Duration   { return b.timeout }
func (b base) MaxAttempts() int         { return b.maxAttempts }

// criticalDefaults returns the max-attempts default spec §4.1 prescribes:
// 3 for critical stages, 1 otherwise, when the caller passes 0.
func criticalDefaults(critical bool, maxAttempts int) int {
	if maxAttempts > 0 {
		return maxAttempts
	}
	if critical {
		return 3
	}
	return 1
}
