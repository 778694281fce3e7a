// Package render turns a validated article.Output into its export formats:
// HTML (with schema.org JSON-LD and OpenGraph/Twitter meta), Markdown, JSON,
// and PDF (delegated to an external conversion service per spec §1/§5 —
// PDF layout itself is explicitly out of this module's core).
package render

import (
	"fmt"
	"time"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/htmlutil"
)

// defaultBaseURL anchors absolute image src and canonical link values
// emitted into the rendered HTML and JSON-LD when the caller passes an empty
// base URL.
const defaultBaseURL = "https://example.com"

// jsonLD builds the schema.org graph embedded in the HTML head: an Article,
// its FAQPage (when the article has FAQ entries), the publishing
// Organization, and a BreadcrumbList anchored on baseURL.
func jsonLD(o *article.Output, cfg article.JobConfig, slug, baseURL string) map[string]any {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	articleURL := fmt.Sprintf("%s/magazine/%s", baseURL, slug)

	graph := []map[string]any{articleNode(o, cfg, articleURL, baseURL)}

	if len(o.FAQ) > 0 {
		graph = append(graph, faqNode(o))
	}

	graph = append(graph, organizationNode(cfg, baseURL))
	graph = append(graph, breadcrumbNode(o, articleURL, baseURL))

	return map[string]any{
		"@context": "https://schema.org",
		"@graph":   graph,
	}
}

func articleNode(o *article.Output, cfg article.JobConfig, articleURL, baseURL string) map[string]any {
	node := map[string]any{
		"@type":            "Article",
		"@id":               articleURL + "#article",
		"headline":         o.Headline,
		"description":      o.MetaDescription,
		"articleBody":      plainArticleBody(o),
		"datePublished":    publishedTimestamp(),
		"mainEntityOfPage": map[string]any{"@type": "WebPage", "@id": articleURL},
	}
	if hero, ok := o.Images["hero"]; ok && hero.URL != "" {
		node["image"] = hero.URL
	}
	if cfg.Author != nil {
		node["author"] = map[string]any{
			"@type": "Person",
			"name":  cfg.Author.Name,
			"url":   cfg.Author.URL,
		}
	}
	if len(o.Sources) > 0 {
		citations := make([]string, 0, len(o.Sources))
		for _, src := range o.Sources {
			citations = append(citations, src.URL)
		}
		node["citation"] = citations
	}
	return node
}

func faqNode(o *article.Output) map[string]any {
	entries := make([]map[string]any, 0, len(o.FAQ))
	for _, qa := range o.FAQ {
		entries = append(entries, map[string]any{
			"@type": "Question",
			"name":  qa.Question,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  htmlutil.StripTags(qa.Answer),
			},
		})
	}
	return map[string]any{
		"@type":        "FAQPage",
		"mainEntity":   entries,
	}
}

func organizationNode(cfg article.JobConfig, baseURL string) map[string]any {
	return map[string]any{
		"@type": "Organization",
		"name":  firstNonEmpty(cfg.CompanyName, "Publisher"),
		"url":   baseURL,
	}
}

func breadcrumbNode(o *article.Output, articleURL, baseURL string) map[string]any {
	return map[string]any{
		"@type": "BreadcrumbList",
		"itemListElement": []map[string]any{
			{"@type": "ListItem", "position": 1, "name": "Home", "item": baseURL},
			{"@type": "ListItem", "position": 2, "name": "Magazine", "item": baseURL + "/magazine"},
			{"@type": "ListItem", "position": 3, "name": o.Headline, "item": articleURL},
		},
	}
}

// plainArticleBody strips HTML and parenthesizes citation markers (spec §5:
// JSON-LD articleBody carries plain text, with "[3]" rendered as "(source 3)"
// rather than a clickable anchor, since structured data has no DOM).
func plainArticleBody(o *article.Output) string {
	var body string
	body += htmlutil.StripTags(o.Intro) + " "
	for _, s := range o.Sections {
		body += htmlutil.StripTags(s.Content) + " "
	}
	return citationMarkerRe.ReplaceAllString(body, "(source $1)")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// publishedTimestamp reports the zero RFC3339 instant
// ("0001-01-01T00:00:00Z"), keeping rendering free of wall-clock reads.
// Nothing later replaces it, so exported JSON-LD carries this value as
// datePublished.
func publishedTimestamp() string {
	return time.Time{}.Format(time.RFC3339)
}
