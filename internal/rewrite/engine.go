// Package rewrite implements the RewriteEngine: targeted surgical edits on
// article fields via the LLM collaborator, validated so an edit is neither
// a no-op nor a full rewrite (spec §4.3).
package rewrite

import (
	"context"
	"fmt"
	"strings"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/htmlutil"
	"github.com/ai-visible/articleengine/internal/linkutil"
	"github.com/ai-visible/articleengine/internal/llm"
	"github.com/ai-visible/articleengine/internal/workflow"
)

var _ workflow.Rewriter = (*RewriteEngine)(nil)

// RewriteEngine applies RewriteInstructions to an article's fields.
type RewriteEngine struct {
	LLM llm.Client
}

// New creates a RewriteEngine backed by the given LLM collaborator.
func New(client llm.Client) *RewriteEngine {
	return &RewriteEngine{LLM: client}
}

// FieldResult is the per-instruction outcome recorded in the rewrite
// result envelope.
type FieldResult struct {
	Field   string
	Applied bool
	Reason  string
}

// Rewrite applies each instruction in order to ec.Structured. On
// unrecoverable failure of a single instruction, that field is left
// unchanged and the failure is recorded on ec; Rewrite itself only returns
// an error if ec.Structured is nil (nothing to rewrite).
func (e *RewriteEngine) Rewrite(ctx context.Context, ec *workflow.ExecutionContext, instructions []workflow.RewriteInstruction) error {
	if ec.Structured == nil {
		return fmt.Errorf("rewrite: no structured article to edit")
	}

	for _, instr := range instructions {
		results := e.apply(ctx, ec.Structured, instr)
		for _, r := range results {
			if !r.Applied {
				ec.RecordError("rewrite", workflow.KindValidationFailure, fmt.Sprintf("field %q: %s", r.Field, r.Reason), false)
			}
		}
	}
	return nil
}

// apply resolves an instruction's target to one or more concrete fields
// and rewrites each independently.
func (e *RewriteEngine) apply(ctx context.Context, a *article.Output, instr workflow.RewriteInstruction) []FieldResult {
	fields := e.resolveTargets(a, instr.Target)
	results := make([]FieldResult, 0, len(fields))
	for _, field := range fields {
		results = append(results, e.applyToField(ctx, a, field, instr))
	}
	return results
}

func (e *RewriteEngine) resolveTargets(a *article.Output, target string) []string {
	switch target {
	case "all_sections":
		var fields []string
		for _, s := range a.Sections {
			fields = append(fields, article.SectionContentField(s.Ordinal))
		}
		return fields
	case "all_content":
		fields := make([]string, 0)
		for name := range a.ContentFields() {
			fields = append(fields, name)
		}
		return fields
	default:
		return []string{target}
	}
}

func (e *RewriteEngine) applyToField(ctx context.Context, a *article.Output, field string, instr workflow.RewriteInstruction) FieldResult {
	before, isContent := fieldValue(a, field)
	if before == "" && !isContent {
		if _, ok := a.PlainTextFields()[field]; !ok {
			return FieldResult{Field: field, Applied: false, Reason: "unknown field"}
		}
	}

	minSim, maxSim := resolveBounds(instr)
	maxAttempts := instr.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 2
	}

	kind := selectTemplate(instr)

	var lastReason string
	for attempt := 0; attempt < maxAttempts; attempt++ {
		prompt := buildPrompt(kind, before, instr)
		after, err := e.LLM.Generate(ctx, llm.Request{Prompt: prompt})
		if err != nil {
			lastReason = fmt.Sprintf("llm error: %v", err)
			continue
		}
		after = strings.TrimSpace(after)

		if after == before {
			lastReason = "edit is a no-op"
			continue
		}

		sim := TokenSetSimilarity(before, after)
		if sim > maxSim {
			lastReason = fmt.Sprintf("edit too minimal (similarity %.2f > max %.2f)", sim, maxSim)
			continue
		}
		if sim < minSim {
			lastReason = fmt.Sprintf("edit too aggressive (similarity %.2f < min %.2f)", sim, minSim)
			continue
		}
		if !htmlutil.SameTagSequence(before, after) {
			lastReason = "HTML tag sequence changed"
			continue
		}
		if !citationsPreserved(before, after) {
			lastReason = "a citation marker was removed"
			continue
		}
		if !linksPreserved(before, after) {
			lastReason = "an internal link was removed"
			continue
		}

		commitField(a, field, isContent, after)
		return FieldResult{Field: field, Applied: true}
	}

	return FieldResult{Field: field, Applied: false, Reason: lastReason}
}

func fieldValue(a *article.Output, field string) (value string, isContent bool) {
	if v, ok := a.ContentFields()[field]; ok {
		return v, true
	}
	return a.PlainTextFields()[field], false
}

func commitField(a *article.Output, field string, isContent bool, value string) {
	if isContent {
		a.SetContentField(field, value)
		return
	}
	a.SetPlainTextField(field, value)
}

func resolveBounds(instr workflow.RewriteInstruction) (min, max float64) {
	min, max = instr.MinSimilarity, instr.MaxSimilarity
	if min == 0 && max == 0 {
		if instr.Mode == "refresh" {
			return 0.60, 0.85
		}
		return 0.70, 0.95
	}
	return min, max
}

func citationsPreserved(before, after string) bool {
	afterSet := map[int]bool{}
	for _, n := range htmlutil.CitationMarkers(after) {
		afterSet[n] = true
	}
	for _, n := range htmlutil.CitationMarkers(before) {
		if !afterSet[n] {
			return false
		}
	}
	return true
}

func linksPreserved(before, after string) bool {
	afterSet := map[string]bool{}
	for _, href := range htmlutil.HrefsOf(after) {
		afterSet[linkutil.NormalizeHref(href)] = true
	}
	for _, href := range htmlutil.HrefsOf(before) {
		n := linkutil.NormalizeHref(href)
		if !linkutil.IsInternal(n) {
			continue
		}
		if !afterSet[n] {
			return false
		}
	}
	return true
}
