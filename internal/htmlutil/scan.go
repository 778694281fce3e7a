package htmlutil

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var citationMarkerRe = regexp.MustCompile(`\[(\d+)\]`)

// CitationMarkers returns the set of distinct citation ordinals (the N in
// "[N]") referenced in s, in first-seen order.
func CitationMarkers(s string) []int {
	matches := citationMarkerRe.FindAllStringSubmatch(s, -1)
	seen := map[int]bool{}
	var out []int
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// HrefsOf returns every href attribute value found in s's anchor tags.
func HrefsOf(s string) []string {
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	var hrefs []string
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return hrefs
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := tokenizer.TagName()
		if string(name) != "a" || !hasAttr {
			continue
		}
		for {
			key, val, more := tokenizer.TagAttr()
			if string(key) == "href" {
				hrefs = append(hrefs, string(val))
			}
			if !more {
				break
			}
		}
	}
}

// CountTag returns the number of occurrences of the given tag name
// (start tags only) in s.
func CountTag(s, tagName string) int {
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	count := 0
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return count
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, _ := tokenizer.TagName()
		if string(name) == tagName {
			count++
		}
	}
}

// ParagraphWordCounts returns the word count of every <p> element's text
// content, in document order. Used by the short-paragraph quality check.
func ParagraphWordCounts(s string) []int {
	doc, err := html.Parse(strings.NewReader("<html><body>" + s + "</body></html>"))
	if err != nil {
		return nil
	}
	var counts []int
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			counts = append(counts, len(strings.Fields(textOf(n))))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return counts
}

// ParagraphCitationCounts returns, for each <p> element, how many distinct
// [N] citation markers it contains.
func ParagraphCitationCounts(s string) []int {
	doc, err := html.Parse(strings.NewReader("<html><body>" + s + "</body></html>"))
	if err != nil {
		return nil
	}
	var counts []int
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			counts = append(counts, len(CitationMarkers(textOf(n))))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return counts
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textOf(c))
	}
	return sb.String()
}
