package quality

import (
	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/workflow"
)

// Score runs every rubric component against o and returns the populated
// QualityReport, including critical issues detected by DetectIssues.
// Each call builds a fresh report; callers that assign it to
// ec.QualityReport replace the previous one. Cleanup then appends the
// non-fatal stage errors (from Citations, Similarity-Check and others) to
// the new report as warnings.
func Score(o *article.Output, cfg article.JobConfig) workflow.QualityReport {
	components := map[string]float64{
		"direct_answer":   DirectAnswerScore(o, cfg.PrimaryKeyword),
		"qa_format":       QAFormatScore(o),
		"citation_clarity": CitationClarityScore(o),
		"natural_language": NaturalLanguageScore(o),
		"structured_data":  StructuredDataScore(o),
		"eeat":             EEATScore(cfg.Author),
	}

	var total float64
	for _, v := range components {
		total += v
	}

	issues := DetectIssues(o, cfg.PrimaryKeyword)

	return workflow.QualityReport{
		AEOScore:        total,
		CriticalIssues:  issues,
		ComponentScores: components,
	}
}
