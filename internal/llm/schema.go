package llm

import (
	"google.golang.org/genai"

	"github.com/ai-visible/articleengine/internal/article"
)

// ArticleOutputSchema declares the JSON shape the generation stage requires
// the model to emit, derived from the ArticleOutput record (spec §3).
// Sections are flattened to numbered keys (section_01_title,
// section_01_content, ... up to section_10) since genai.Schema has no
// notion of a dynamically-keyed object; the generation stage folds them
// back into article.Output.Sections after decoding.
func ArticleOutputSchema(maxSections int) *genai.Schema {
	props := map[string]*genai.Schema{
		"headline":           str(),
		"subtitle":           str(),
		"teaser":             str(),
		"meta_title":         str(),
		"meta_description":   str(),
		"direct_answer":      str(),
		"intro":              str(),
		"section_01_title":   str(),
		"section_01_content": str(),
		"faq":                arrayOf(qaSchema()),
		"paa":                arrayOf(qaSchema()),
		"tables":             arrayOf(tableSchema()),
		"sources":            arrayOf(sourceSchema()),
	}
	required := []string{
		"headline", "subtitle", "teaser", "meta_title", "meta_description",
		"direct_answer", "intro", "section_01_title", "section_01_content",
	}

	for i := 2; i <= maxSections; i++ {
		props[article.SectionTitleField(i)] = str()
		props[article.SectionContentField(i)] = str()
	}

	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   required,
	}
}

func qaSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"question": str(),
			"answer":   str(),
		},
		Required: []string{"question", "answer"},
	}
}

func tableSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":   str(),
			"headers": arrayOf(str()),
			"rows":    arrayOf(arrayOf(str())),
		},
		Required: []string{"title", "headers", "rows"},
	}
}

func sourceSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":    &genai.Schema{Type: genai.TypeInteger},
			"url":   str(),
			"title": str(),
		},
		Required: []string{"id", "url", "title"},
	}
}

func str() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

func arrayOf(items *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: items}
}
