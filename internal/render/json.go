package render

import (
	"encoding/json"
	"fmt"

	"github.com/ai-visible/articleengine/internal/article"
)

// JSON renders o as the raw ArticleOutput record, the export format
// consumers who want the structured data rather than a document use.
func JSON(o *article.Output) ([]byte, error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render json: %w", err)
	}
	return b, nil
}
