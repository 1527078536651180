package notification

import (
	"fmt"
	"strings"

	"dealpilot-backend/pkg/extract"
)

var spaces = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")

// BuildSMSBody renders the creator-facing opportunity summary. Absent fields
// are simply omitted; the closing call to action always offers the three
// reply verbs the webhook understands.
func BuildSMSBody(brandName, subject, fromAddress string, details extract.Details) string {
	var parts []string
	if details.Budget != "" {
		parts = append(parts, "Budget "+details.Budget)
	}
	if details.Deliverables != "" {
		parts = append(parts, "Deliverables: "+details.Deliverables)
	}
	if details.DueDate != "" {
		parts = append(parts, "Due "+details.DueDate)
	}

	detailSuffix := ""
	if len(parts) > 0 {
		detailSuffix = strings.Join(parts, ". ") + ". "
	}

	intro := fmt.Sprintf("New brand inquiry: %q from %s", subject, fromAddress)
	if brandName != "" {
		intro = "New brand deal from " + brandName
	}

	body := intro + ". " + detailSuffix +
		"Reply YES to accept, or NEGOTIATE to discuss terms, or REJECT to pass."

	return strings.TrimSpace(strings.Join(strings.Fields(spaces.Replace(body)), " "))
}
