package htmlutil

import (
	"strings"

	"golang.org/x/net/html"
)

// RewriteHrefs rewrites every href attribute of every <a> element in s by
// passing its current value through fn, leaving all other markup, text, and
// attributes untouched. Used by the Quality-Refinement stage to canonicalize
// internal links embedded in generated content.
func RewriteHrefs(s string, fn func(href string) string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	var sb strings.Builder
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return sb.String()
		}
		raw := string(tokenizer.Raw())
		tok := tokenizer.Token()
		if tok.Data == "a" && (tt == html.StartTagToken || tt == html.SelfClosingTagToken) {
			for i, attr := range tok.Attr {
				if attr.Key == "href" {
					tok.Attr[i].Val = fn(attr.Val)
				}
			}
			sb.WriteString(tok.String())
			continue
		}
		sb.WriteString(raw)
	}
}
