package ai

import "context"

// Classification is the generative classifier's verdict on an inbound email.
type Classification string

const (
	ClassificationDeal      Classification = "deal"
	ClassificationNonDeal   Classification = "non_deal"
	ClassificationUncertain Classification = "uncertain"
)

// CreatorProfile describes the creator the email was addressed to.
type CreatorProfile struct {
	Name         string
	Niche        string
	AudienceSize *int64
	TypicalRate  *float64
}

// BrandProfile describes the counterparty, when anything is known about it.
type BrandProfile struct {
	Name     string
	Industry string
}

// InsightRequest carries one email plus context to the classifier.
type InsightRequest struct {
	EmailSubject   string
	EmailBody      string
	CreatorProfile CreatorProfile
	BrandProfile   *BrandProfile
}

// RateRange is an optional recommended rate for the opportunity.
type RateRange struct {
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
	Currency string  `json:"currency"`
}

// Insight is the structured result of classifying one email.
type Insight struct {
	Summary              string         `json:"summary"`
	Classification       Classification `json:"classification"`
	Confidence           float64        `json:"confidence"`
	RecommendedRateRange *RateRange     `json:"recommendedRateRange,omitempty"`
	SuggestedNextSteps   []string       `json:"suggestedNextSteps"`
}

// Classifier is the interface for AI deal-insight providers.
// Implement this interface to add new providers (Gemini, Ollama, etc.).
type Classifier interface {
	GenerateDealInsights(ctx context.Context, req InsightRequest) (*Insight, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
