package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ai-visible/articleengine/internal/article"
)

// PDFMargins is the fixed page-margin policy spec §6 prescribes for export.
type PDFMargins struct {
	TopMM, BottomMM, LeftMM, RightMM float64
}

// DefaultPDFMargins is 25mm top/bottom, 20mm left/right.
var DefaultPDFMargins = PDFMargins{TopMM: 25, BottomMM: 25, LeftMM: 20, RightMM: 20}

// PDFConverter is the external HTML-to-PDF conversion collaborator. PDF
// layout is explicitly out of this module's core (spec §1); the module only
// prepares embeddable HTML and delegates rendering to this service, the same
// way the teacher delegates video rendering to an external `npx remotion
// render` process rather than reimplementing a compositor.
type PDFConverter interface {
	Convert(ctx context.Context, html string, margins PDFMargins) ([]byte, error)
}

// HTTPPDFConverter calls an external HTML-to-PDF conversion service over
// HTTP (e.g. a headless-Chromium print endpoint).
type HTTPPDFConverter struct {
	BaseURL string
	Client  *http.Client
}

var _ PDFConverter = (*HTTPPDFConverter)(nil)

// NewHTTPPDFConverter creates a converter targeting the given service URL.
func NewHTTPPDFConverter(baseURL string) *HTTPPDFConverter {
	return &HTTPPDFConverter{BaseURL: baseURL, Client: &http.Client{}}
}

type pdfConvertRequest struct {
	HTML    string  `json:"html"`
	Margins margins `json:"margins"`
}

type margins struct {
	TopMM    float64 `json:"top_mm"`
	BottomMM float64 `json:"bottom_mm"`
	LeftMM   float64 `json:"left_mm"`
	RightMM  float64 `json:"right_mm"`
}

func (c *HTTPPDFConverter) Convert(ctx context.Context, html string, m PDFMargins) ([]byte, error) {
	body, err := json.Marshal(pdfConvertRequest{
		HTML: html,
		Margins: margins{
			TopMM: m.TopMM, BottomMM: m.BottomMM, LeftMM: m.LeftMM, RightMM: m.RightMM,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("pdf convert: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(c.BaseURL, "/")+"/convert", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("pdf convert: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pdf convert: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pdf convert: service returned status %d", resp.StatusCode)
	}

	pdfBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("pdf convert: read response: %w", err)
	}
	return pdfBytes, nil
}

// EmbeddableHTML re-renders o's HTML document with every image src replaced
// by a base64 data URI from images, so the PDF converter needs no further
// network access to fetch illustrations.
func EmbeddableHTML(o *article.Output, cfg article.JobConfig, slug, baseURL string, images map[string][]byte, mimeTypes map[string]string) (string, error) {
	embedded := *o
	embedded.Images = make(map[string]article.Image, len(o.Images))
	for slot, img := range o.Images {
		data, ok := images[slot]
		if !ok {
			embedded.Images[slot] = img
			continue
		}
		mime := mimeTypes[slot]
		if mime == "" {
			mime = "image/png"
		}
		embedded.Images[slot] = article.Image{
			URL: fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)),
			Alt: img.Alt,
		}
	}
	return HTML(&embedded, cfg, slug, baseURL)
}
