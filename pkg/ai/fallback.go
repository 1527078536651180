package ai

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
)

// FallbackService routes classification across providers: Gemini first for
// quality, Ollama when Gemini is unreachable or out of quota.
type FallbackService struct {
	gemini Classifier
	ollama Classifier
	logger *slog.Logger
}

func NewFallbackService(gemini, ollama Classifier, logger *slog.Logger) *FallbackService {
	return &FallbackService{gemini: gemini, ollama: ollama, logger: logger}
}

func (f *FallbackService) GenerateDealInsights(ctx context.Context, req InsightRequest) (*Insight, error) {
	if f.gemini != nil {
		insight, err := f.gemini.GenerateDealInsights(ctx, req)
		if err == nil {
			return insight, nil
		}
		if f.ollama == nil {
			return nil, fmt.Errorf("gemini classification failed: %w", err)
		}
		switch {
		case isQuotaError(err):
			f.logger.Warn("gemini quota exhausted, falling back to ollama", "error", err)
		case isConnectionError(err):
			f.logger.Warn("gemini unreachable, falling back to ollama", "error", err)
		default:
			f.logger.Warn("gemini classification failed, falling back to ollama", "error", err)
		}
	}

	if f.ollama != nil {
		insight, err := f.ollama.GenerateDealInsights(ctx, req)
		if err == nil {
			return insight, nil
		}
		return nil, fmt.Errorf("ollama classification failed: %w", err)
	}

	return nil, fmt.Errorf("no AI provider available for classification")
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if _, ok := err.(net.Error); ok {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}
	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
	}
	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}
