package stages

import (
	"context"
	"fmt"
	"time"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/htmlutil"
	"github.com/ai-visible/articleengine/internal/linkutil"
	"github.com/ai-visible/articleengine/internal/workflow"
)

// MinInternalLinks is the floor spec §8 expects across a whole article.
const MinInternalLinks = 2

// InternalLinks is the Internal-Links stage (spec §4.2, parallel,
// non-critical): it collects every internal href embedded in section
// content, canonicalized to /magazine/{slug} and deduplicated per section,
// and publishes them as ctx.Structured.InternalLinks, keyed by the section
// ordinal the link appears in. Section content itself is not rewritten.
type InternalLinks struct {
	base
}

var _ workflow.Stage = (*InternalLinks)(nil)

// NewInternalLinks creates the Internal-Links stage at ordinal 5.
func NewInternalLinks() *InternalLinks {
	return &InternalLinks{base: base{
		ordinal: 5, name: "internal-links", phase: workflow.PhaseParallel,
		critical: false, timeout: 10 * time.Second, maxAttempts: criticalDefaults(false, 0),
	}}
}

func (s *InternalLinks) Execute(_ context.Context, ec *workflow.ExecutionContext) error {
	if ec.Structured == nil {
		return nil
	}
	o := ec.Structured

	links := make(map[int][]article.InternalLink)
	total := 0

	for _, section := range o.Sections {
		seen := map[string]bool{}
		for _, href := range htmlutil.HrefsOf(section.Content) {
			normalized := linkutil.NormalizeHref(href)
			if !linkutil.IsInternal(normalized) || seen[normalized] {
				continue
			}
			seen[normalized] = true
			links[section.Ordinal] = append(links[section.Ordinal], article.InternalLink{
				Href:       normalized,
				AnchorText: linkutil.Slug(normalized),
			})
			total++
		}
	}

	o.InternalLinks = links

	if total < MinInternalLinks {
		ec.RecordError(s.name, workflow.KindValidationFailure,
			fmt.Sprintf("only %d internal link(s) found, minimum is %d", total, MinInternalLinks), false)
	}

	return nil
}
