package intake

import (
	"context"
	"log/slog"
	"regexp"

	"dealpilot-backend/pkg/ai"
)

// dealKeywords is the cheap lexical screen applied alongside the AI verdict.
// An email is a deal candidate when either signal fires.
var dealKeywords = regexp.MustCompile(`(?i)sponsor|brand|partnership|collab|offer|campaign|promotion|advert`)

func matchesDealKeywords(subject, body string) bool {
	return dealKeywords.MatchString(subject) || dealKeywords.MatchString(body)
}

// InsightProvider wraps an ai.Classifier so that a sync run always gets a
// usable insight. Provider failures degrade to a manual-review placeholder
// instead of aborting the run.
type InsightProvider struct {
	classifier ai.Classifier
	logger     *slog.Logger
}

func NewInsightProvider(classifier ai.Classifier, logger *slog.Logger) *InsightProvider {
	return &InsightProvider{classifier: classifier, logger: logger}
}

// Generate never fails: with no provider configured it returns a placeholder
// insight, and on provider errors it logs and degrades.
func (p *InsightProvider) Generate(ctx context.Context, req ai.InsightRequest) *ai.Insight {
	if p.classifier == nil {
		return ai.Degraded(
			"AI summary unavailable - missing API key.",
			ai.ManualReviewStep,
			"Configure an AI provider to enable automatic summaries.",
		)
	}

	insight, err := p.classifier.GenerateDealInsights(ctx, req)
	if err != nil {
		p.logger.Warn("ai insight generation failed, falling back to manual review",
			"subject", req.EmailSubject,
			"error", err)
		return ai.Degraded(
			"AI summary unavailable due to an upstream error.",
			ai.ManualReviewStep,
			"Retry once AI services are available.",
		)
	}
	return insight
}
