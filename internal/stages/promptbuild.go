package stages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/linkutil"
	"github.com/ai-visible/articleengine/internal/workflow"
)

// PromptBuild is the Prompt-Build stage (spec §4.2): emits ctx.Prompt, a
// structured instruction enumerating every constraint the quality scorer
// will check, with a regeneration-attempt-dependent variant.
type PromptBuild struct {
	base
}

var _ workflow.Stage = (*PromptBuild)(nil)

// NewPromptBuild creates the Prompt-Build stage at ordinal 1.
func NewPromptBuild() *PromptBuild {
	return &PromptBuild{base: base{
		ordinal: 1, name: "prompt-build", phase: workflow.PhasePre,
		critical: true, timeout: 5 * time.Second, maxAttempts: criticalDefaults(true, 0),
	}}
}

func (s *PromptBuild) Execute(_ context.Context, ec *workflow.ExecutionContext) error {
	var b strings.Builder

	cfg := ec.JobConfig
	attempt := ec.RegenerationAttempt + 1

	fmt.Fprintf(&b, "Write a long-form SEO/AEO-optimized article targeting the primary keyword %q.\n", cfg.PrimaryKeyword)
	fmt.Fprintf(&b, "Target word count: %d. Language: %s.\n", cfg.WordCountTarget, cfg.Language)
	if cfg.Country != "" {
		fmt.Fprintf(&b, "Target country/market: %s.\n", cfg.Country)
	}
	if ec.CompanyData.Name != "" {
		fmt.Fprintf(&b, "Write on behalf of %s (%s): %s\n", ec.CompanyData.Name, ec.CompanyData.Domain, ec.CompanyData.Description)
	}

	b.WriteString("\nRequired constraints (every one is checked mechanically):\n")
	b.WriteString("- Headline: 50-60 characters.\n")
	b.WriteString("- Meta_Title: at most 60 characters.\n")
	b.WriteString("- Meta_Description: 120-160 characters.\n")
	b.WriteString("- Direct_Answer: 40-60 words, must contain the primary keyword and a [N] citation marker.\n")
	b.WriteString("- Intro: 80-120 words, HTML.\n")
	b.WriteString("- Up to 10 numbered sections (section_01 required); each section_NN_content is HTML with well-formed tags.\n")
	b.WriteString("- The primary keyword must appear 5-8 times total across section content, no more, no fewer.\n")
	b.WriteString("- No paragraph under 40 words.\n")
	b.WriteString("- Cite sources inline with [N] markers; every [N] must resolve to a sources[] entry and every sources[] entry must be cited.\n")
	b.WriteString("- Include a faq array of 5-6 {question, answer} pairs and a paa array of 3-4 {question, answer} pairs; FAQ and PAA questions must be disjoint from section titles.\n")
	b.WriteString("- At least 3 section titles should be phrased as questions.\n")
	b.WriteString("- Use at least 3 lists (<ul>/<ol>) and at least 3 <h2> headings across the content.\n")
	b.WriteString("- Write naturally and conversationally (second person, concrete examples); avoid vague filler phrasing.\n")
	b.WriteString("- Never use an em-dash (—) anywhere; use a comma instead.\n")
	b.WriteString("- Avoid stock AI phrasing such as \"delve into\", \"tapestry of\", \"in the realm of\", \"it's important to note that\".\n")
	b.WriteString("- Optionally include up to 2 comparison tables (2-6 headers, 1-10 rows, cells under 5 words).\n")
	b.WriteString("- Every internal link href must be given in /magazine/{slug} form.\n")

	if pool := internalLinkPool(cfg, ec.SitemapData); pool != "" {
		b.WriteString("\nInternal-link candidates (choose from these, normalize hrefs to /magazine/{slug}):\n")
		b.WriteString(pool)
	}

	if attempt > 1 {
		b.WriteString("\nThis is a regeneration attempt. The previous draft failed these checks — fix them decisively this time:\n")
		for _, issue := range ec.QualityReport.CriticalIssues {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", issue.Kind, issue.Field, issue.Detail)
		}
	}

	ec.Prompt = b.String()
	return nil
}

// internalLinkPool renders the candidate internal links drawn from
// sitemap_data and batch_siblings, each normalized to /magazine/{slug}.
func internalLinkPool(cfg article.JobConfig, sitemap []article.SitemapEntry) string {
	var b strings.Builder
	for _, e := range sitemap {
		href := linkutil.NormalizeHref(e.Slug)
		fmt.Fprintf(&b, "- %s: %s\n", href, e.Title)
	}
	for _, sib := range cfg.BatchSiblings {
		href := linkutil.NormalizeHref(sib.Slug)
		fmt.Fprintf(&b, "- %s: %s\n", href, sib.Title)
	}
	return b.String()
}
