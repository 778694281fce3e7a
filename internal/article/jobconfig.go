package article

import "time"

// ExportFormat identifies a rendering target for Storage/Export.
type ExportFormat string

const (
	FormatHTML     ExportFormat = "html"
	FormatMarkdown ExportFormat = "markdown"
	FormatPDF      ExportFormat = "pdf"
	FormatJSON     ExportFormat = "json"
)

// SiblingSummary is a prior article in the same batch, used for similarity
// dedup and as an internal-link candidate pool.
type SiblingSummary struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Fingerprint uint64 `json:"fingerprint"`
}

// JobConfig holds the recognized per-request options enumerated in spec §6.
type JobConfig struct {
	PrimaryKeyword  string `json:"primary_keyword"`
	CompanyURL      string `json:"company_url,omitempty"`
	CompanyName     string `json:"company_name,omitempty"`
	Language        string `json:"language,omitempty"`
	Country         string `json:"country,omitempty"`
	WordCountTarget int    `json:"word_count_target,omitempty"`

	ExportFormats []ExportFormat `json:"export_formats,omitempty"`

	BatchSiblings []SiblingSummary `json:"batch_siblings,omitempty"`

	Author *Author `json:"author,omitempty"`

	MaxRegenerationAttempts int `json:"max_regeneration_attempts,omitempty"`
	QualityGateAEOMin       float64 `json:"quality_gate_aeo_min,omitempty"`
	QualityGateCriticalMax  int     `json:"quality_gate_critical_max,omitempty"`

	StageTimeouts map[string]time.Duration `json:"stage_timeouts,omitempty"`
	ParallelConcurrency int               `json:"parallel_concurrency,omitempty"`
}

// Defaults fills in recognized default values for fields the caller left
// zero-valued. Invoked by the Data-Fetch stage per spec §4.2.
func (c *JobConfig) Defaults() {
	if c.Language == "" {
		c.Language = "en"
	}
	if c.WordCountTarget == 0 {
		c.WordCountTarget = 2000
	}
	if len(c.ExportFormats) == 0 {
		c.ExportFormats = []ExportFormat{FormatHTML, FormatJSON}
	}
	if c.MaxRegenerationAttempts == 0 {
		c.MaxRegenerationAttempts = 3
	}
	if c.QualityGateAEOMin == 0 {
		c.QualityGateAEOMin = 85
	}
	if c.ParallelConcurrency == 0 {
		c.ParallelConcurrency = 8
	}
	if c.StageTimeouts == nil {
		c.StageTimeouts = map[string]time.Duration{}
	}
}

// CompanyData is the record harvested from CompanyURL.
type CompanyData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Domain      string `json:"domain"`
	AuthorName  string `json:"author_name,omitempty"`
	AuthorBio   string `json:"author_bio,omitempty"`
	AuthorURL   string `json:"author_url,omitempty"`
}

// SitemapEntry is a single internal URL slug harvested from a sitemap.
type SitemapEntry struct {
	Slug   string   `json:"slug"`
	Title  string   `json:"title"`
	Topics []string `json:"topics,omitempty"`
}
