package stages

import (
	"context"
	"fmt"
	"time"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/collab"
	"github.com/ai-visible/articleengine/internal/linkutil"
	"github.com/ai-visible/articleengine/internal/render"
	"github.com/ai-visible/articleengine/internal/workflow"
)

// StorageExport is the Storage/Export stage (spec §4.2, post, non-critical):
// it persists generated images, renders every format named in
// job_config.export_formats, and writes the result through the injected
// Persistence collaborator, publishing ctx.exported_artifacts.
type StorageExport struct {
	base
	Persistence  collab.Persistence
	PDFConverter render.PDFConverter
	BaseURL      string
}

var _ workflow.Stage = (*StorageExport)(nil)

// NewStorageExport creates the Storage/Export stage at ordinal 9.
func NewStorageExport(persistence collab.Persistence, pdf render.PDFConverter, baseURL string) *StorageExport {
	return &StorageExport{
		base: base{
			ordinal: 9, name: "storage-export", phase: workflow.PhasePost,
			critical: false, timeout: 60 * time.Second, maxAttempts: criticalDefaults(false, 0),
		},
		Persistence:  persistence,
		PDFConverter: pdf,
		BaseURL:      baseURL,
	}
}

func (s *StorageExport) Execute(ctx context.Context, ec *workflow.ExecutionContext) error {
	if ec.Structured == nil || s.Persistence == nil {
		return nil
	}
	o := ec.Structured
	slug := linkutil.Slugify(o.Headline)

	files := make(map[string][]byte)
	imageBytes := make(map[string][]byte)
	imageMimes := make(map[string]string)

	for slot := range o.Images {
		raw, ok := ec.ParallelResult("image:" + slot)
		if !ok {
			continue
		}
		img, ok := raw.(collab.GeneratedImage)
		if !ok || len(img.Bytes) == 0 {
			continue
		}
		ext := extensionFor(img.MimeType)
		path := fmt.Sprintf("images/%s%s", slot, ext)
		files[path] = img.Bytes
		imageBytes[slot] = img.Bytes
		imageMimes[slot] = img.MimeType

		entry := o.Images[slot]
		entry.URL = "/" + path
		o.Images[slot] = entry
	}

	artifacts := make(map[string]string)

	for _, format := range ec.JobConfig.ExportFormats {
		switch format {
		case article.FormatHTML:
			doc, err := render.HTML(o, ec.JobConfig, slug, s.BaseURL)
			if err != nil {
				ec.RecordError(s.name, workflow.KindStageException, "html render failed: "+err.Error(), false)
				continue
			}
			files["index.html"] = []byte(doc)
			artifacts["html"] = "index.html"

		case article.FormatMarkdown:
			files["article.md"] = []byte(render.Markdown(o))
			artifacts["markdown"] = "article.md"

		case article.FormatJSON:
			encoded, err := render.JSON(o)
			if err != nil {
				ec.RecordError(s.name, workflow.KindStageException, "json render failed: "+err.Error(), false)
				continue
			}
			files["article.json"] = encoded
			artifacts["json"] = "article.json"

		case article.FormatPDF:
			if s.PDFConverter == nil {
				ec.RecordError(s.name, workflow.KindUpstreamError, "pdf export requested but no converter configured", false)
				continue
			}
			embeddable, err := render.EmbeddableHTML(o, ec.JobConfig, slug, s.BaseURL, imageBytes, imageMimes)
			if err != nil {
				ec.RecordError(s.name, workflow.KindStageException, "pdf pre-render failed: "+err.Error(), false)
				continue
			}
			pdfBytes, err := s.PDFConverter.Convert(ctx, embeddable, render.DefaultPDFMargins)
			if err != nil {
				ec.RecordError(s.name, workflow.KindUpstreamError, "pdf conversion failed: "+err.Error(), false)
				continue
			}
			files["article.pdf"] = pdfBytes
			artifacts["pdf"] = "article.pdf"
		}
	}

	metadata := map[string]any{
		"job_id":     ec.JobID,
		"slug":       slug,
		"aeo_score":  ec.QualityReport.AEOScore,
		"duplicate":  ec.SimilarityReport.IsDuplicate,
	}

	if err := s.Persistence.Store(ctx, ec.JobID, files, metadata); err != nil {
		return workflow.NewStageError(s.name, workflow.KindUpstreamError, err)
	}

	ec.ExportedArtifacts = artifacts
	return nil
}

func extensionFor(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
