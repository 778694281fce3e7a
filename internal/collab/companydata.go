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

// CompanyDataHarvester harvests a CompanyData record from a company_url,
// grounded on the teacher's get_webpage.go text-extraction tool, swapped
// from a tokenizer walk to goquery selectors since this harvester needs
// specific meta tags rather than bulk readable text.
type CompanyDataHarvester interface {
	Harvest(ctx context.Context, companyURL string) (article.CompanyData, error)
}

// HTTPCompanyDataHarvester fetches the company's homepage and reads its
// <title>, meta description, and og:site_name.
type HTTPCompanyDataHarvester struct {
	httpClient *http.Client
}

var _ CompanyDataHarvester = (*HTTPCompanyDataHarvester)(nil)

func NewHTTPCompanyDataHarvester() *HTTPCompanyDataHarvester {
	return &HTTPCompanyDataHarvester{httpClient: &http.Client{Timeout: 30 * time.Second}}
}

func (h *HTTPCompanyDataHarvester) Harvest(ctx context.Context, companyURL string) (article.CompanyData, error) {
	u, err := url.Parse(companyURL)
	if err != nil {
		return article.CompanyData{}, fmt.Errorf("company-data: parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, companyURL, nil)
	if err != nil {
		return article.CompanyData{}, err
	}
	req.Header.Set("User-Agent", "ArticleEngine/1.0 (company data harvester)")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return article.CompanyData{}, fmt.Errorf("company-data: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return article.CompanyData{}, fmt.Errorf("company-data: %s returned %d", companyURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return article.CompanyData{}, fmt.Errorf("company-data: parse html: %w", err)
	}

	data := article.CompanyData{Domain: u.Host}

	if name, ok := metaContent(doc, "og:site_name"); ok {
		data.Name = name
	} else {
		data.Name = strings.TrimSpace(doc.Find("title").First().Text())
	}

	if desc, ok := metaContent(doc, "og:description"); ok {
		data.Description = desc
	} else if desc, ok := metaNameContent(doc, "description"); ok {
		data.Description = desc
	}

	return data, nil
}

func metaContent(doc *goquery.Document, property string) (string, bool) {
	sel := doc.Find(fmt.Sprintf(`meta[property="%s"]`, property)).First()
	if sel.Length() == 0 {
		return "", false
	}
	content, ok := sel.Attr("content")
	return strings.TrimSpace(content), ok && content != ""
}

func metaNameContent(doc *goquery.Document, name string) (string, bool) {
	sel := doc.Find(fmt.Sprintf(`meta[name="%s"]`, name)).First()
	if sel.Length() == 0 {
		return "", false
	}
	content, ok := sel.Attr("content")
	return strings.TrimSpace(content), ok && content != ""
}
