package stages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ai-visible/articleengine/internal/collab"
	"github.com/ai-visible/articleengine/internal/workflow"
)

// DataFetch is the Data-Fetch stage (spec §4.2): harvests company_data and
// sitemap_data from job_config.company_url (if supplied), fills job_config
// defaults, and validates required fields.
type DataFetch struct {
	base
	CompanyHarvester collab.CompanyDataHarvester
	SitemapFetcher   collab.SitemapFetcher
}

var _ workflow.Stage = (*DataFetch)(nil)

// NewDataFetch creates the Data-Fetch stage at ordinal 0.
func NewDataFetch(companyHarvester collab.CompanyDataHarvester, sitemapFetcher collab.SitemapFetcher) *DataFetch {
	return &DataFetch{
		base: base{
			ordinal: 0, name: "data-fetch", phase: workflow.PhasePre,
			critical: true, timeout: 20 * time.Second, maxAttempts: criticalDefaults(true, 0),
		},
		CompanyHarvester: companyHarvester,
		SitemapFetcher:   sitemapFetcher,
	}
}

func (s *DataFetch) Execute(ctx context.Context, ec *workflow.ExecutionContext) error {
	if strings.TrimSpace(ec.JobConfig.PrimaryKeyword) == "" {
		return workflow.NewStageError(s.name, workflow.KindInvalidInput, fmt.Errorf("primary_keyword is required"))
	}

	ec.JobConfig.Defaults()

	if ec.JobConfig.CompanyURL == "" {
		return nil
	}

	if s.CompanyHarvester != nil {
		data, err := s.CompanyHarvester.Harvest(ctx, ec.JobConfig.CompanyURL)
		if err != nil {
			ec.RecordError(s.name, workflow.KindUpstreamError, fmt.Sprintf("company data harvest failed, continuing without it: %v", err), false)
		} else {
			ec.CompanyData = data
		}
	}

	if s.SitemapFetcher != nil {
		entries, err := s.SitemapFetcher.Fetch(ctx, ec.JobConfig.CompanyURL)
		if err != nil {
			ec.RecordError(s.name, workflow.KindUpstreamError, fmt.Sprintf("sitemap fetch failed, continuing without it: %v", err), false)
		} else {
			ec.SitemapData = entries
		}
	}

	return nil
}
