package ai

import (
	"fmt"
	"strings"
)

const insightInstructions = "You are an AI assistant that reads inbound brand deal emails for content creators. " +
	"Return a JSON object describing the opportunity with exactly these fields: " +
	`"summary" (string), "classification" (one of "deal", "non_deal", "uncertain"), ` +
	`"confidence" (number between 0 and 1), "suggestedNextSteps" (array of strings, at least one), ` +
	`and optionally "recommendedRateRange" ({"low": number, "high": number, "currency": string}). ` +
	"When details are missing, make best-effort inferences and mark confidence accordingly. " +
	"Respond with the JSON object only, no prose."

// insightPrompt renders the shared user prompt so every provider sees the
// same context.
func insightPrompt(req InsightRequest) string {
	var sections []string

	if req.EmailSubject != "" {
		sections = append(sections, "Email Subject: "+req.EmailSubject)
	}
	if req.EmailBody != "" {
		sections = append(sections, "Email Body:\n"+req.EmailBody)
	}

	creator := []string{"Name: " + req.CreatorProfile.Name}
	if req.CreatorProfile.Niche != "" {
		creator = append(creator, "Niche: "+req.CreatorProfile.Niche)
	}
	if req.CreatorProfile.AudienceSize != nil {
		creator = append(creator, fmt.Sprintf("Audience size: %d", *req.CreatorProfile.AudienceSize))
	}
	if req.CreatorProfile.TypicalRate != nil {
		creator = append(creator, fmt.Sprintf("Typical rate: %g", *req.CreatorProfile.TypicalRate))
	}
	sections = append(sections, "Creator Profile:\n"+strings.Join(creator, "\n"))

	if req.BrandProfile != nil {
		var brand []string
		if req.BrandProfile.Name != "" {
			brand = append(brand, "Name: "+req.BrandProfile.Name)
		}
		if req.BrandProfile.Industry != "" {
			brand = append(brand, "Industry: "+req.BrandProfile.Industry)
		}
		if len(brand) > 0 {
			sections = append(sections, "Brand Profile:\n"+strings.Join(brand, "\n"))
		}
	}

	return strings.Join(sections, "\n\n")
}
