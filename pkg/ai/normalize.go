package ai

import (
	"math"
	"strings"
)

// ManualReviewStep is the default suggestion when a provider returns none.
const ManualReviewStep = "Review the email manually to confirm whether it is a brand inquiry."

// Normalize defensively cleans a provider response in place: invalid
// classifications collapse to uncertain, confidence is clamped to [0,1], and
// an empty suggestion list gets the manual-review default.
func Normalize(insight *Insight) *Insight {
	switch insight.Classification {
	case ClassificationDeal, ClassificationNonDeal, ClassificationUncertain:
	default:
		insight.Classification = ClassificationUncertain
	}

	if math.IsNaN(insight.Confidence) || math.IsInf(insight.Confidence, 0) {
		insight.Confidence = 0
	}
	insight.Confidence = math.Min(1, math.Max(0, insight.Confidence))

	insight.Summary = strings.TrimSpace(insight.Summary)
	if insight.Summary == "" {
		insight.Summary = "AI summary unavailable - empty summary returned."
	}

	steps := insight.SuggestedNextSteps[:0]
	for _, step := range insight.SuggestedNextSteps {
		if trimmed := strings.TrimSpace(step); trimmed != "" {
			steps = append(steps, trimmed)
		}
	}
	if len(steps) == 0 {
		steps = []string{ManualReviewStep}
	}
	insight.SuggestedNextSteps = steps

	return insight
}

// Degraded is the fixed zero-confidence result substituted when no provider
// can answer. It is a valid classification outcome, never an error.
func Degraded(summary string, steps ...string) *Insight {
	if len(steps) == 0 {
		steps = []string{ManualReviewStep}
	}
	return &Insight{
		Summary:            summary,
		Classification:     ClassificationUncertain,
		Confidence:         0,
		SuggestedNextSteps: steps,
	}
}
