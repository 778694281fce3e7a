package stages

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/llm"
	"github.com/ai-visible/articleengine/internal/workflow"
)

// MaxSections is the largest section ordinal the generation schema
// declares (spec §3: "up to nine additional section_NN pairs" beyond the
// required section_01).
const MaxSections = 10

// Generation is the Generation stage (spec §4.2): invokes the LLM
// collaborator with ctx.Prompt and a JSON-schema-constrained response,
// publishing ctx.RawArticle and, on successful validation,
// ctx.Structured.
type Generation struct {
	base
	LLM llm.Client
}

var _ workflow.Stage = (*Generation)(nil)

// NewGeneration creates the Generation stage at ordinal 2.
func NewGeneration(client llm.Client) *Generation {
	return &Generation{
		base: base{
			ordinal: 2, name: "generation", phase: workflow.PhasePre,
			critical: true, timeout: 90 * time.Second, maxAttempts: criticalDefaults(true, 0),
		},
		LLM: client,
	}
}

// generationWire is the flattened JSON shape the model emits, matching
// llm.ArticleOutputSchema's numbered section keys.
type generationWire map[string]any

func (s *Generation) Execute(ctx context.Context, ec *workflow.ExecutionContext) error {
	schema := llm.ArticleOutputSchema(MaxSections)

	raw, err := s.LLM.Generate(ctx, llm.Request{Prompt: ec.Prompt, ResponseSchema: schema})
	if err != nil {
		return workflow.NewStageError(s.name, workflow.KindUpstreamError, err)
	}
	ec.RawArticle = raw

	cleaned, err := llm.StripMarkdownJSON(raw)
	if err != nil {
		return workflow.NewStageError(s.name, workflow.KindSchemaViolation, err)
	}

	var wire generationWire
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return workflow.NewStageError(s.name, workflow.KindSchemaViolation, fmt.Errorf("invalid JSON: %w", err))
	}

	out, err := decodeArticle(wire)
	if err != nil {
		return workflow.NewStageError(s.name, workflow.KindSchemaViolation, err)
	}

	ec.Structured = out
	return nil
}

func decodeArticle(wire generationWire) (*article.Output, error) {
	out := &article.Output{}

	required := map[string]*string{
		"headline":         &out.Headline,
		"subtitle":         &out.Subtitle,
		"teaser":           &out.Teaser,
		"meta_title":       &out.MetaTitle,
		"meta_description": &out.MetaDescription,
		"direct_answer":    &out.DirectAnswer,
		"intro":            &out.Intro,
	}
	for field, dest := range required {
		v, ok := stringField(wire, field)
		if !ok || strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("missing required field %q", field)
		}
		*dest = v
	}

	title1, ok1 := stringField(wire, article.SectionTitleField(1))
	content1, ok2 := stringField(wire, article.SectionContentField(1))
	if !ok1 || !ok2 || strings.TrimSpace(content1) == "" {
		return nil, fmt.Errorf("missing required field %q or %q", article.SectionTitleField(1), article.SectionContentField(1))
	}
	out.Sections = append(out.Sections, article.Section{Ordinal: 1, Title: title1, Content: content1})

	for i := 2; i <= MaxSections; i++ {
		title, tok := stringField(wire, article.SectionTitleField(i))
		content, cok := stringField(wire, article.SectionContentField(i))
		if !cok || strings.TrimSpace(content) == "" {
			continue
		}
		if !tok {
			title = ""
		}
		out.Sections = append(out.Sections, article.Section{Ordinal: i, Title: title, Content: content})
	}

	out.FAQ = decodeQAList(wire["faq"])
	out.PAA = decodeQAList(wire["paa"])
	out.Tables = decodeTables(wire["tables"])
	out.Sources = decodeSources(wire["sources"])

	return out, nil
}

func stringField(wire generationWire, key string) (string, bool) {
	v, ok := wire[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func decodeQAList(raw any) []article.QA {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]article.QA, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		q, _ := m["question"].(string)
		a, _ := m["answer"].(string)
		out = append(out, article.QA{Question: q, Answer: a})
	}
	return out
}

func decodeTables(raw any) []article.ComparisonTable {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]article.ComparisonTable, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title, _ := m["title"].(string)
		headers := toStringSlice(m["headers"])
		var rows [][]string
		if rawRows, ok := m["rows"].([]any); ok {
			for _, r := range rawRows {
				rows = append(rows, toStringSlice(r))
			}
		}
		out = append(out, article.ComparisonTable{Title: title, Headers: headers, Rows: rows})
	}
	return out
}

func decodeSources(raw any) []article.Source {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]article.Source, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id := 0
		switch v := m["id"].(type) {
		case float64:
			id = int(v)
		case int:
			id = v
		}
		url, _ := m["url"].(string)
		title, _ := m["title"].(string)
		out = append(out, article.Source{ID: id, URL: url, Title: title})
	}
	return out
}

func toStringSlice(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
