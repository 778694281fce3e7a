package collab

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ai-visible/articleengine/internal/article"
)

// SitemapFetcher is the sitemap collaborator: fetch(company_url) -> set of
// {slug, title, topics} (spec §6).
type SitemapFetcher interface {
	Fetch(ctx context.Context, companyURL string) ([]article.SitemapEntry, error)
}

// HTTPSitemapFetcher discovers internal URLs by reading /sitemap.xml if
// present, falling back to crawling the site's index page for same-domain
// links. Grounded on the teacher's fetchScrape (goquery-based HTML
// traversal over an HTTP-fetched document).
type HTTPSitemapFetcher struct {
	httpClient *http.Client
}

var _ SitemapFetcher = (*HTTPSitemapFetcher)(nil)

// NewHTTPSitemapFetcher creates a fetcher with the teacher's 30s timeout.
func NewHTTPSitemapFetcher() *HTTPSitemapFetcher {
	return &HTTPSitemapFetcher{httpClient: &http.Client{Timeout: 30 * time.Second}}
}

func (f *HTTPSitemapFetcher) Fetch(ctx context.Context, companyURL string) ([]article.SitemapEntry, error) {
	base, err := url.Parse(companyURL)
	if err != nil {
		return nil, fmt.Errorf("sitemap: parse company url: %w", err)
	}

	if entries, err := f.fetchSitemapXML(ctx, base); err == nil && len(entries) > 0 {
		return entries, nil
	}
	return f.crawlIndex(ctx, base)
}

func (f *HTTPSitemapFetcher) fetchSitemapXML(ctx context.Context, base *url.URL) ([]article.SitemapEntry, error) {
	sitemapURL := base.Scheme + "://" + base.Host + "/sitemap.xml"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap.xml: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("sitemap.xml returned %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse sitemap.xml: %w", err)
	}

	var entries []article.SitemapEntry
	doc.Find("url > loc, sitemap > loc").Each(func(_ int, s *goquery.Selection) {
		loc := strings.TrimSpace(s.Text())
		if loc == "" {
			return
		}
		if entry, ok := entryFromURL(loc); ok {
			entries = append(entries, entry)
		}
	})
	return entries, nil
}

// crawlIndex fetches the company's homepage and extracts same-domain
// anchor hrefs as candidate internal-link slugs, mirroring the teacher's
// selector-driven scrape pattern with the default "body" selector narrowed
// to "a[href]".
func (f *HTTPSitemapFetcher) crawlIndex(ctx context.Context, base *url.URL) ([]article.SitemapEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "ArticleEngine/1.0 (sitemap crawler)")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crawl index: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse index page: %w", err)
	}

	seen := map[string]bool{}
	var entries []article.SitemapEntry
	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= 200 {
			return false
		}
		href, _ := s.Attr("href")
		resolved, ok := resolveSameDomain(base, href)
		if !ok || seen[resolved] {
			return true
		}
		seen[resolved] = true
		if entry, ok := entryFromURL(resolved); ok {
			entry.Title = strings.TrimSpace(s.Text())
			entries = append(entries, entry)
		}
		return true
	})
	return entries, nil
}

func resolveSameDomain(base *url.URL, href string) (string, bool) {
	u, err := base.Parse(href)
	if err != nil || u.Host != base.Host {
		return "", false
	}
	u.Fragment = ""
	return u.String(), true
}

func entryFromURL(raw string) (article.SitemapEntry, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return article.SitemapEntry{}, false
	}
	slug := strings.Trim(u.Path, "/")
	if slug == "" {
		return article.SitemapEntry{}, false
	}
	parts := strings.Split(slug, "/")
	return article.SitemapEntry{
		Slug:   parts[len(parts)-1],
		Topics: parts[:max(0, len(parts)-1)],
	}, true
}
