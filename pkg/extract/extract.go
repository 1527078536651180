// Package extract pulls structured deal terms out of free-form email text.
// Each field runs an ordered list of rules with first-match-wins semantics; a
// rule that does not match simply yields nothing.
package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Details are the best-effort fields found in an email body. Empty string
// means the field was not present.
type Details struct {
	Budget       string `json:"budget,omitempty"`
	Deliverables string `json:"deliverables,omitempty"`
	DueDate      string `json:"dueDate,omitempty"`
}

const budgetToken = `([$£€]?\s*[0-9][0-9,\.]*(?:\s?(?:k|m|million|thousand))?)`

var (
	budgetRules = []*regexp.Regexp{
		regexp.MustCompile(`(?i)budget\s*(?:[:\-]|is|=)?\s*` + budgetToken),
		regexp.MustCompile(`(?i)(?:budgeted\s+at|priced\s+at|rate\s+of|for)\s+` + budgetToken),
	}
	currencyAmount = regexp.MustCompile(`(?i)([$£€]\s*[0-9][0-9,\.]*(?:\s?(?:k|m|million|thousand))?)`)
	dealContext    = regexp.MustCompile(`deal|offer|budget|rate|pay|for|payment|proposal`)

	deliverableRules = []*regexp.Regexp{
		regexp.MustCompile(`(?i)deliverables?\s*(?:[:\-]|includes?|are)?\s*([^\n\r]+)`),
	}
	deliverableFallback = regexp.MustCompile(`(?i)(?:for|including|with|asking for)\s+([^$.\s][^.\n]{1,119}?(?:posts?|videos?|stories?|reels?|deliverables?|assets?|placements?|mentions?|spots?|campaigns?))`)

	dueDateRules = []*regexp.Regexp{
		regexp.MustCompile(`(?i)due\s*(?:date)?\s*(?:[:\-]|is|on|by)?\s*(\d{1,2}/\d{1,2}/\d{2,4})`),
		regexp.MustCompile(`(?i)due\s*(?:date)?\s*(?:[:\-]|is|on|by)?\s*([A-Za-z]{3,9}\s+\d{1,2},?\s+\d{4})`),
		regexp.MustCompile(`(?i)deadline\s*(?:[:\-]|is|on|by)?\s*(\d{1,2}/\d{1,2}/\d{2,4})`),
		regexp.MustCompile(`(?i)deadline\s*(?:[:\-]|is|on|by)?\s*([A-Za-z]{3,9}\s+\d{1,2},?\s+\d{4})`),
		regexp.MustCompile(`(?i)by\s+(\d{1,2}/\d{1,2}/\d{2,4})`),
		regexp.MustCompile(`(?i)by\s+([A-Za-z]{3,9}\s+\d{1,2},?\s+\d{4})`),
	}

	subjectBrand  = regexp.MustCompile(`-\s*([^-]+)$`)
	fromDisplay   = regexp.MustCompile(`["']?([^"<']+)["']?\s*<.+>`)
	currencyLead  = regexp.MustCompile(`^([$£€])`)
	budgetNumeric = regexp.MustCompile(`(?i)^[$£€]?([0-9]+(?:[.,][0-9]+)*)?(k|m|million|thousand)?$`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// DealDetails runs every field extractor against the body.
func DealDetails(body string) Details {
	budget, budgetEnd := findBudget(body)
	return Details{
		Budget:       budget,
		Deliverables: findDeliverables(body, budgetEnd),
		DueDate:      findDueDate(body),
	}
}

// findBudget returns the formatted budget and the byte offset just past the
// matched token, so the deliverables fallback can search after it.
func findBudget(body string) (string, int) {
	for _, rule := range budgetRules {
		loc := rule.FindStringSubmatchIndex(body)
		if loc == nil || loc[2] < 0 {
			continue
		}
		token := body[loc[2]:loc[3]]
		return formatBudgetToken(token), loc[3]
	}

	// Fall back to any currency-prefixed amount with a deal-related word in
	// the 30 characters before it.
	for _, loc := range currencyAmount.FindAllStringSubmatchIndex(body, -1) {
		start := loc[2]
		prefixStart := start - 30
		if prefixStart < 0 {
			prefixStart = 0
		}
		prefix := strings.ToLower(body[prefixStart:start])
		if dealContext.MatchString(prefix) {
			return formatBudgetToken(body[loc[2]:loc[3]]), loc[3]
		}
	}

	return "", -1
}

func formatBudgetToken(raw string) string {
	trimmed := strings.TrimSpace(raw)
	token := strings.ToLower(whitespace.ReplaceAllString(raw, ""))

	symbol := "$"
	if m := currencyLead.FindStringSubmatch(trimmed); m != nil {
		symbol = m[1]
	}

	fallback := trimmed
	if !strings.HasPrefix(fallback, "$") && symbol == "$" {
		fallback = "$" + fallback
	}

	m := budgetNumeric.FindStringSubmatch(token)
	if m == nil || m[1] == "" {
		return fallback
	}

	base, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return fallback
	}

	multiplier := 1.0
	switch strings.ToLower(m[2]) {
	case "k", "thousand":
		multiplier = 1_000
	case "m", "million":
		multiplier = 1_000_000
	}

	return symbol + groupThousands(int64(math.Round(base*multiplier)))
}

func groupThousands(value int64) string {
	digits := strconv.FormatInt(value, 10)
	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	var out strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(r)
	}
	if negative {
		return "-" + out.String()
	}
	return out.String()
}

func findDeliverables(body string, budgetEnd int) string {
	for _, rule := range deliverableRules {
		if m := rule.FindStringSubmatch(body); m != nil {
			return sanitizeFragment(m[1])
		}
	}

	searchStart := 0
	if budgetEnd > 0 && budgetEnd <= len(body) {
		searchStart = budgetEnd
	}
	if m := deliverableFallback.FindStringSubmatch(body[searchStart:]); m != nil {
		return sanitizeFragment(m[1])
	}

	return ""
}

func findDueDate(body string) string {
	for _, rule := range dueDateRules {
		if m := rule.FindStringSubmatch(body); m != nil {
			return sanitizeFragment(m[1])
		}
	}
	return ""
}

func sanitizeFragment(input string) string {
	collapsed := whitespace.ReplaceAllString(input, " ")
	collapsed = strings.TrimRight(collapsed, " ")
	collapsed = strings.TrimSuffix(collapsed, ".")
	return strings.TrimSpace(collapsed)
}

// BrandName guesses the counterparty's display name: a trailing "- Brand"
// subject suffix wins, then the display-name part of the sender address, then
// the raw subject or address.
func BrandName(subject, fromAddress string) string {
	if m := subjectBrand.FindStringSubmatch(subject); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}

	if m := fromDisplay.FindStringSubmatch(fromAddress); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}

	if trimmed := strings.TrimSpace(subject); trimmed != "" {
		return trimmed
	}
	return fromAddress
}

// SenderAddress extracts the bare address from "Name <a@b.com>" style input.
func SenderAddress(fromAddress string) string {
	addr := fromAddress
	if start := strings.LastIndex(addr, "<"); start >= 0 {
		if end := strings.Index(addr[start:], ">"); end > 0 {
			addr = addr[start+1 : start+end]
		}
	}
	return strings.TrimSpace(addr)
}

// SenderDomain extracts the domain of an address like "Name <a@b.com>" or
// "a@b.com"; empty when none is present.
func SenderDomain(fromAddress string) string {
	addr := SenderAddress(fromAddress)
	at := strings.LastIndex(addr, "@")
	if at < 0 || at == len(addr)-1 {
		return ""
	}
	return strings.ToLower(addr[at+1:])
}
