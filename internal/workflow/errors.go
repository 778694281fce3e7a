package workflow

import "fmt"

// ErrorKind names a taxonomy bucket, not a Go type, per the engine's error
// handling design: stages raise typed errors, the engine records them, and
// decides to retry/continue/abort based on Critical/MaxAttempts.
type ErrorKind string

const (
	KindInvalidInput          ErrorKind = "InvalidInput"
	KindUpstreamTimeout       ErrorKind = "UpstreamTimeout"
	KindUpstreamError         ErrorKind = "UpstreamError"
	KindSchemaViolation       ErrorKind = "SchemaViolation"
	KindValidationFailure     ErrorKind = "ValidationFailure"
	KindQualityGateExhausted  ErrorKind = "QualityGateExhausted"
	KindCriticalStageFailed   ErrorKind = "CriticalStageFailed"
	KindStageTimeout          ErrorKind = "StageTimeout"
	KindStageException        ErrorKind = "StageException"
)

// StageError is the typed error a Stage's Execute method raises, wrapping a
// collaborator error with a taxonomy kind. The engine records a StageError
// under its Kind; any other error a stage returns is recorded as
// StageException, or StageTimeout when the attempt's deadline passed.
type StageError struct {
	Stage string
	Kind  ErrorKind
	Err   error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// NewStageError wraps err with stage context and a taxonomy kind.
func NewStageError(stage string, kind ErrorKind, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

// PipelineError is returned by WorkflowEngine.Execute when a critical stage
// fails after exhausting its retries.
type PipelineError struct {
	Stage string
	Kind  ErrorKind
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed at stage %q (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// ErrorRecord is the ctx.errors entry shape from §3/§7: {stage, kind,
// message, fatal}.
type ErrorRecord struct {
	Stage   string    `json:"stage"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Fatal   bool      `json:"fatal"`
}
