package render

import (
	"fmt"
	"strings"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/htmlutil"
)

// Markdown renders o to GitHub-flavored Markdown. Content fields are
// generated HTML; since the article body never needs markdown's own
// emphasis/heading syntax, sections are flattened to plain text with
// paragraph breaks preserved rather than round-tripped through an HTML-to-
// Markdown converter.
func Markdown(o *article.Output) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", o.Headline)
	if o.Subtitle != "" {
		fmt.Fprintf(&b, "_%s_\n\n", o.Subtitle)
	}
	fmt.Fprintf(&b, "> %s\n\n", o.DirectAnswer)
	b.WriteString(markdownParagraphs(o.Intro))
	b.WriteString("\n")

	for _, s := range o.Sections {
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		b.WriteString(markdownParagraphs(s.Content))
		b.WriteString("\n")
	}

	for _, t := range o.Tables {
		b.WriteString(markdownTable(t))
	}

	if len(o.FAQ) > 0 {
		b.WriteString("## Frequently Asked Questions\n\n")
		for _, qa := range o.FAQ {
			fmt.Fprintf(&b, "**%s**\n\n%s\n\n", qa.Question, qa.Answer)
		}
	}

	if len(o.PAA) > 0 {
		b.WriteString("## People Also Ask\n\n")
		for _, qa := range o.PAA {
			fmt.Fprintf(&b, "**%s**\n\n%s\n\n", qa.Question, qa.Answer)
		}
	}

	if len(o.Sources) > 0 {
		b.WriteString("## Sources\n\n")
		for _, src := range o.Sources {
			fmt.Fprintf(&b, "%d. [%s](%s)\n", src.ID, src.Title, src.URL)
		}
	}

	return b.String()
}

func markdownParagraphs(htmlContent string) string {
	paragraphs := strings.Split(htmlContent, "</p>")
	var b strings.Builder
	for _, p := range paragraphs {
		text := strings.TrimSpace(htmlutil.StripTags(p))
		if text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String()
}

func markdownTable(t article.ComparisonTable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", t.Title)
	b.WriteString("| " + strings.Join(t.Headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(t.Headers)) + "\n")
	for _, row := range t.Rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	b.WriteString("\n")
	return b.String()
}
