package workflow

import "github.com/ai-visible/articleengine/internal/article"

// DecisionKind is the quality gate's verdict, reified as an enum rather than
// control flow driven by raised exceptions (spec's redesign note: "reify the
// quality-gate decision as an enum... the engine reacts to values, not
// raised exceptions").
type DecisionKind string

const (
	DecisionAccept     DecisionKind = "accept"
	DecisionSurgical   DecisionKind = "surgical"
	DecisionRegenerate DecisionKind = "regenerate"
	DecisionExhaust    DecisionKind = "exhaust"
)

// RewriteInstruction mirrors the spec's RewriteInstruction record.
type RewriteInstruction struct {
	Target         string
	Instruction    string
	Mode           string
	Context        map[string]any
	MinSimilarity  float64
	MaxSimilarity  float64
	MaxAttempts    int
}

// Decision is the quality gate's output.
type Decision struct {
	Kind         DecisionKind
	Instructions []RewriteInstruction
}

// surgicalTemplates enumerates the critical-issue kinds that map to a known
// RewriteInstruction template. An issue kind outside this set means a
// targeted rewrite isn't feasible for it, per §4.1's quality gate policy.
var surgicalTemplates = map[string]bool{
	"keyword_overuse":  true,
	"short_paragraph":  true,
	"ai_markers":       true,
	"outdated_statistic": true,
}

// EvaluateQualityGate is the pure evaluator behind §4.1's quality gate
// policy. It never mutates ec; the engine applies the returned Decision.
func EvaluateQualityGate(ec *ExecutionContext, cfg article.JobConfig, surgicalPassesUsed, regenerationAttempt int, buildInstructions func(issue Issue) (RewriteInstruction, bool)) Decision {
	report := ec.QualityReport

	if report.AEOScore >= cfg.QualityGateAEOMin && len(report.CriticalIssues) <= cfg.QualityGateCriticalMax {
		return Decision{Kind: DecisionAccept}
	}

	if surgicalPassesUsed < 1 {
		instructions := make([]RewriteInstruction, 0, len(report.CriticalIssues))
		feasible := true
		for _, issue := range report.CriticalIssues {
			if !surgicalTemplates[issue.Kind] {
				feasible = false
				break
			}
			instr, ok := buildInstructions(issue)
			if !ok {
				feasible = false
				break
			}
			instructions = append(instructions, instr)
		}
		if feasible && len(instructions) > 0 {
			return Decision{Kind: DecisionSurgical, Instructions: instructions}
		}
	}

	if regenerationAttempt < cfg.MaxRegenerationAttempts {
		return Decision{Kind: DecisionRegenerate}
	}

	return Decision{Kind: DecisionExhaust}
}
