package collab

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// GeneratedImage is the {bytes, mime_type} or URL record spec §6's
// image-generator collaborator returns.
type GeneratedImage struct {
	Bytes    []byte
	MimeType string
	URL      string
}

// ImageGenerator is the image-generator collaborator: generate(prompt) ->
// {bytes, mime_type} | URL, or an error the calling stage degrades on.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (GeneratedImage, error)
}

// GeminiImageGenerator adapts google.golang.org/genai's image-capable
// Gemini models directly, grounded on the teacher's
// internal/model/gemini_image.go (lazy client init, ResponseModalities
// set for image output, first-candidate extraction).
type GeminiImageGenerator struct {
	apiKey string
	model  string

	once    sync.Once
	client  *genai.Client
	initErr error
}

var _ ImageGenerator = (*GeminiImageGenerator)(nil)

// NewGeminiImageGenerator creates a generator for the given image-capable
// model (e.g. "gemini-2.5-flash-image").
func NewGeminiImageGenerator(apiKey, model string) *GeminiImageGenerator {
	return &GeminiImageGenerator{apiKey: apiKey, model: model}
}

func (g *GeminiImageGenerator) ensureClient(ctx context.Context) error {
	g.once.Do(func() {
		g.client, g.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return g.initErr
}

func (g *GeminiImageGenerator) Generate(ctx context.Context, prompt string) (GeneratedImage, error) {
	if err := g.ensureClient(ctx); err != nil {
		return GeneratedImage{}, fmt.Errorf("image generator: client init failed: %w", err)
	}

	cfg := &genai.GenerateContentConfig{ResponseModalities: []string{"TEXT", "IMAGE"}}
	contents := genai.Text(prompt)

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return GeneratedImage{}, fmt.Errorf("image generator: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return GeneratedImage{}, fmt.Errorf("image generator: no candidates in response")
	}

	for _, part := range result.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return GeneratedImage{
				Bytes:    part.InlineData.Data,
				MimeType: part.InlineData.MIMEType,
			}, nil
		}
	}
	return GeneratedImage{}, fmt.Errorf("image generator: response contained no image data")
}
