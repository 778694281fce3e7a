package stages

import (
	"context"
	"fmt"
	"time"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/collab"
	"github.com/ai-visible/articleengine/internal/htmlutil"
	"github.com/ai-visible/articleengine/internal/workflow"
)

// imageSlots are the illustration positions spec §4.2 names: one hero image
// above the fold, one mid-article, one near the close.
var imageSlots = []string{"hero", "mid", "bottom"}

// Image is the Image stage (spec §4.2, parallel, non-critical): generates an
// illustration per slot and publishes the raw bytes through
// ctx.ParallelResults for Storage/Export to persist and bind a final URL.
// A generation failure degrades that slot rather than failing the stage.
type Image struct {
	base
	Generator collab.ImageGenerator
}

var _ workflow.Stage = (*Image)(nil)

// NewImage creates the Image stage at ordinal 6. generator may be nil, in
// which case the stage is a no-op (no images requested for the batch).
func NewImage(generator collab.ImageGenerator) *Image {
	return &Image{
		base: base{
			ordinal: 6, name: "image", phase: workflow.PhaseParallel,
			critical: false, timeout: 60 * time.Second, maxAttempts: criticalDefaults(false, 0),
		},
		Generator: generator,
	}
}

func (s *Image) Execute(ctx context.Context, ec *workflow.ExecutionContext) error {
	if ec.Structured == nil || s.Generator == nil {
		return nil
	}
	o := ec.Structured

	images := make(map[string]article.Image, len(imageSlots))

	for _, slot := range imageSlots {
		prompt := s.promptFor(slot, o)
		if prompt == "" {
			continue
		}
		img, err := s.Generator.Generate(ctx, prompt)
		if err != nil {
			ec.RecordError(s.name, workflow.KindUpstreamError,
				fmt.Sprintf("image slot %q generation failed, omitting: %v", slot, err), false)
			continue
		}
		ec.SetParallelResult("image:"+slot, img)
		images[slot] = article.Image{Alt: s.altFor(slot, o)}
	}

	o.Images = images
	return nil
}

func (s *Image) promptFor(slot string, o *article.Output) string {
	switch slot {
	case "hero":
		return fmt.Sprintf("Editorial hero illustration for an article titled %q. Clean, photorealistic, no embedded text.", o.Headline)
	case "mid":
		if sec, ok := o.Section(2); ok {
			return fmt.Sprintf("Supporting illustration for the section %q: %s", sec.Title, htmlutil.StripTags(sec.Content))
		}
		return ""
	case "bottom":
		if len(o.Sections) > 0 {
			last := o.Sections[len(o.Sections)-1]
			return fmt.Sprintf("Closing illustration echoing the theme of %q.", last.Title)
		}
		return ""
	default:
		return ""
	}
}

func (s *Image) altFor(slot string, o *article.Output) string {
	return fmt.Sprintf("%s illustration for %s", slot, o.Headline)
}
