package ai

import (
	"fmt"
	"log/slog"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "gemini", "ollama" or "auto"

	// Gemini config
	GeminiAPIKey string

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"
}

// NewClassifier creates a Classifier based on the config. "auto" uses Gemini
// with Ollama as fallback when both are available.
func NewClassifier(cfg Config, logger *slog.Logger) (Classifier, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewGeminiService(cfg.GeminiAPIKey), nil

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil

	default:
		if cfg.GeminiAPIKey != "" {
			gemini := NewGeminiService(cfg.GeminiAPIKey)
			ollama := NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel)
			return NewFallbackService(gemini, ollama, logger), nil
		}
		return nil, fmt.Errorf("no AI provider configured")
	}
}
