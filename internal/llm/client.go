// Package llm defines the minimal LLM collaborator surface the core
// consumes (spec §6) and a concrete Anthropic Messages API adapter.
package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// ErrKind is the LLM collaborator's error taxonomy (spec §6).
type ErrKind string

const (
	ErrTimeout        ErrKind = "Timeout"
	ErrSchemaViolation ErrKind = "SchemaViolation"
	ErrRateLimited     ErrKind = "RateLimited"
	ErrUpstreamError   ErrKind = "UpstreamError"
)

// Error is the error type returned by Client.Generate.
type Error struct {
	Kind ErrKind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Request is the generate() call shape from spec §6:
// generate(prompt, response_schema?, tools?, timeout) → text. The timeout
// is expressed as ctx's deadline rather than a field, since every
// collaborator call in this engine is a suspension point wrapped by the
// calling stage's own deadline (spec §5).
type Request struct {
	Prompt         string
	ResponseSchema *genai.Schema
	Tools          []*genai.Tool
}

// Client is the LLM collaborator interface. When ResponseSchema is set,
// the returned text MUST be valid JSON against it.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}
