package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/ai-visible/articleengine/internal/article"
)

const htmlDocumentTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.MetaTitle}}</title>
<meta name="description" content="{{.MetaDescription}}">
<link rel="canonical" href="{{.CanonicalURL}}">
<meta property="og:type" content="article">
<meta property="og:title" content="{{.Headline}}">
<meta property="og:description" content="{{.MetaDescription}}">
<meta property="og:url" content="{{.CanonicalURL}}">
{{if .HeroImageURL}}<meta property="og:image" content="{{.HeroImageURL}}">{{end}}
<meta name="twitter:card" content="summary_large_image">
<meta name="twitter:title" content="{{.Headline}}">
<meta name="twitter:description" content="{{.MetaDescription}}">
<script type="application/ld+json">{{.JSONLD}}</script>
</head>
<body>
<article>
<header>
<h1>{{.Headline}}</h1>
{{if .Subtitle}}<p class="subtitle">{{.Subtitle}}</p>{{end}}
</header>
{{if .TOC}}<nav class="toc"><ol>{{range .TOC}}<li><a href="#{{.Anchor}}">{{.ShortLabel}}</a></li>{{end}}</ol></nav>{{end}}
<section class="direct-answer"><p>{{.DirectAnswer}}</p></section>
<section class="intro">{{.Intro}}</section>
{{range .Sections}}
<section id="{{.Anchor}}">
<h2>{{.Title}}</h2>
{{.Content}}
</section>
{{end}}
{{range .Tables}}
<table>
<caption>{{.Title}}</caption>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody>
</table>
{{end}}
{{if .FAQ}}
<section class="faq">
<h2>Frequently Asked Questions</h2>
{{range .FAQ}}<div class="qa"><h3>{{.Question}}</h3><p>{{.Answer}}</p></div>{{end}}
</section>
{{end}}
{{if .PAA}}
<section class="paa">
<h2>People Also Ask</h2>
{{range .PAA}}<div class="qa"><h3>{{.Question}}</h3><p>{{.Answer}}</p></div>{{end}}
</section>
{{end}}
{{if .Sources}}
<section class="sources">
<h2>Sources</h2>
<ol>{{range .Sources}}<li id="source-{{.ID}}"><a href="{{.URL}}">{{.Title}}</a></li>{{end}}</ol>
</section>
{{end}}
</article>
</body>
</html>
`

var htmlDoc = template.Must(template.New("article").Parse(htmlDocumentTemplate))

type htmlSectionView struct {
	Anchor  string
	Title   string
	Content template.HTML
}

type htmlView struct {
	Lang            string
	Headline        string
	Subtitle        string
	MetaTitle       string
	MetaDescription string
	DirectAnswer    string
	Intro           template.HTML
	CanonicalURL    string
	HeroImageURL    string
	JSONLD          template.JS
	TOC             []article.TOCEntry
	Sections        []htmlSectionView
	Tables          []article.ComparisonTable
	FAQ             []article.QA
	PAA             []article.QA
	Sources         []article.Source
}

// HTML renders o as a complete standalone document: head metadata
// (OpenGraph/Twitter/canonical), schema.org JSON-LD, and a body with
// linkified citation markers and anchored sections.
func HTML(o *article.Output, cfg article.JobConfig, slug, baseURL string) (string, error) {
	ld := jsonLD(o, cfg, slug, baseURL)
	ldBytes, err := json.Marshal(ld)
	if err != nil {
		return "", fmt.Errorf("render html: marshal json-ld: %w", err)
	}

	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	view := htmlView{
		Lang:            firstNonEmpty(cfg.Language, "en"),
		Headline:        o.Headline,
		Subtitle:        o.Subtitle,
		MetaTitle:       o.MetaTitle,
		MetaDescription: o.MetaDescription,
		DirectAnswer:    o.DirectAnswer,
		Intro:           template.HTML(linkifyCitations(o.Intro)),
		CanonicalURL:    fmt.Sprintf("%s/magazine/%s", baseURL, slug),
		JSONLD:          template.JS(ldBytes),
		TOC:             o.TOC,
		Tables:          o.Tables,
		FAQ:             o.FAQ,
		PAA:             o.PAA,
		Sources:         o.Sources,
	}
	if hero, ok := o.Images["hero"]; ok {
		view.HeroImageURL = absoluteImageURL(hero.URL, baseURL)
	}

	for _, s := range o.Sections {
		view.Sections = append(view.Sections, htmlSectionView{
			Anchor:  fmt.Sprintf("section-%d", s.Ordinal),
			Title:   s.Title,
			Content: template.HTML(linkifyCitations(s.Content)),
		})
	}

	var b strings.Builder
	if err := htmlDoc.Execute(&b, view); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return b.String(), nil
}

// absoluteImageURL anchors a relative image path on baseURL; an
// already-absolute URL (http(s):// or data:) passes through unchanged.
func absoluteImageURL(src, baseURL string) string {
	if src == "" {
		return ""
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") || strings.HasPrefix(src, "data:") {
		return src
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(src, "/")
}
