package stages

import (
	"github.com/ai-visible/articleengine/internal/collab"
	"github.com/ai-visible/articleengine/internal/llm"
	"github.com/ai-visible/articleengine/internal/render"
	"github.com/ai-visible/articleengine/internal/workflow"
)

// Dependencies bundles every collaborator the canonical ten-stage pipeline
// needs. Any field may be nil; each stage degrades gracefully without its
// collaborator (spec §6's "collaborators are optional, their absence
// degrades a feature, not the pipeline").
type Dependencies struct {
	CompanyHarvester collab.CompanyDataHarvester
	SitemapFetcher   collab.SitemapFetcher
	LLM              llm.Client
	Rewriter         workflow.Rewriter
	URLHealth        collab.URLHealthChecker
	ImageGenerator   collab.ImageGenerator
	Persistence      collab.Persistence
	PDFConverter     render.PDFConverter
	BaseURL          string
}

// NewDefaultRegistry builds and registers the ten canonical pipeline stages
// in spec §4.1's order: data-fetch, prompt-build, generation,
// quality-refinement run sequentially pre-phase; citations, internal-links,
// image, similarity-check run concurrently; cleanup, storage-export run
// sequentially post-phase.
func NewDefaultRegistry(deps Dependencies) *workflow.StageRegistry {
	registry := workflow.NewStageRegistry()
	registry.Register(
		NewDataFetch(deps.CompanyHarvester, deps.SitemapFetcher),
		NewPromptBuild(),
		NewGeneration(deps.LLM),
		NewQualityRefinement(deps.Rewriter),
		NewCitations(deps.URLHealth),
		NewInternalLinks(),
		NewImage(deps.ImageGenerator),
		NewSimilarityCheck(),
		NewCleanup(),
		NewStorageExport(deps.Persistence, deps.PDFConverter, deps.BaseURL),
	)
	return registry
}
