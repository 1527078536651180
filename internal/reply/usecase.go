// Package reply interprets creator SMS replies and drives the resulting deal
// and inbound-email state transitions.
package reply

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	creatorrepo "dealpilot-backend/internal/creator/repository"
	dealdomain "dealpilot-backend/internal/deal/domain"
	dealrepo "dealpilot-backend/internal/deal/repository"
)

const (
	replyUnknownSender = "We couldn't match your number to a creator account. Please contact support."
	replyNoPending     = "No pending deals found. We will notify you when new opportunities arrive."
	replyPrompt        = "Reply YES to accept, NEGOTIATE to discuss terms, or REJECT to skip this opportunity."
	replyRejected      = "Understood. This opportunity has been marked as unqualified."
)

var (
	nonDigits     = regexp.MustCompile(`\D+`)
	bodySeparator = regexp.MustCompile(`[^a-z0-9+]+`)
)

// NormalizePhone reduces a sender address to "+digits" form. The empty string
// means the input carried no digits at all.
func NormalizePhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	digits := nonDigits.ReplaceAllString(trimmed, "")
	if digits == "" {
		return ""
	}
	return "+" + digits
}

// Usecase matches an inbound reply to a creator's pending deal and applies
// exactly one state transition per reply.
type Usecase struct {
	creatorRepo creatorrepo.CreatorRepository
	dealRepo    dealrepo.DealRepository
	emailRepo   dealrepo.InboundEmailRepository
	logger      *slog.Logger
}

func NewUsecase(
	creatorRepo creatorrepo.CreatorRepository,
	dealRepo dealrepo.DealRepository,
	emailRepo dealrepo.InboundEmailRepository,
	logger *slog.Logger,
) *Usecase {
	return &Usecase{
		creatorRepo: creatorRepo,
		dealRepo:    dealRepo,
		emailRepo:   emailRepo,
		logger:      logger,
	}
}

// Handle processes one reply and returns the message to send back. The
// sender must already be normalized via NormalizePhone. Errors are storage
// failures only; every recognizable situation gets a reply text instead.
func (u *Usecase) Handle(normalizedFrom, body string) (string, error) {
	candidates := []string{normalizedFrom, strings.TrimPrefix(normalizedFrom, "+")}

	creator, err := u.creatorRepo.FindByPhoneNumbers(candidates)
	if err != nil {
		return "", fmt.Errorf("failed to look up creator by phone: %w", err)
	}
	if creator == nil {
		u.logger.Warn("received SMS from unknown number", "from", normalizedFrom)
		return replyUnknownSender, nil
	}

	deal, err := u.dealRepo.FindLatestPendingEmailDeal(creator.ID)
	if err != nil {
		return "", fmt.Errorf("failed to find pending deal: %w", err)
	}
	var email *dealdomain.InboundEmail
	if deal != nil && deal.InboundEmailID != nil {
		email, err = u.emailRepo.FindByID(*deal.InboundEmailID)
		if err != nil {
			return "", fmt.Errorf("failed to load inbound email: %w", err)
		}
	}
	if deal == nil || email == nil {
		u.logger.Info("no pending deal awaiting creator confirmation", "creator_id", creator.ID)
		return replyNoPending, nil
	}

	u.logger.Info("matched pending deal for creator reply",
		"creator_id", creator.ID,
		"deal_id", deal.ID)

	intent := classifyIntent(body)
	if intent == intentUnknown {
		return replyPrompt, nil
	}

	parsed := email.DecodeParsedData()
	summary := deal.AISummary
	var confidence *float64
	if parsed != nil && parsed.AIInsight != nil {
		if parsed.AIInsight.Summary != "" {
			summary = parsed.AIInsight.Summary
		}
		c := parsed.AIInsight.Confidence
		confidence = &c
	}
	if summary == "" {
		summary = email.Snippet
	}
	if summary == "" {
		summary = email.Subject
	}
	if summary == "" {
		summary = "New brand opportunity"
	}

	switch intent {
	case intentNegative:
		deal.Status = dealdomain.StatusUnqualified
		if err := u.dealRepo.Update(deal); err != nil {
			return "", fmt.Errorf("failed to mark deal unqualified: %w", err)
		}
		if err := u.emailRepo.UpdateClassification(email.ID, dealdomain.ClassificationDealUnqualified); err != nil {
			return "", fmt.Errorf("failed to update email classification: %w", err)
		}
		return replyRejected, nil

	case intentNegotiate:
		deal.Status = dealdomain.StatusNegotiation
		deal.Summary = summary
		if parsed != nil && parsed.AIInsight != nil && parsed.AIInsight.Summary != "" {
			deal.AISummary = parsed.AIInsight.Summary
		}
		if confidence != nil {
			deal.AIConfidence = *confidence
		}
		if err := u.dealRepo.Update(deal); err != nil {
			return "", fmt.Errorf("failed to move deal to negotiation: %w", err)
		}
		if err := u.emailRepo.UpdateClassification(email.ID, dealdomain.ClassificationDealNegotiate); err != nil {
			return "", fmt.Errorf("failed to update email classification: %w", err)
		}
		title := deal.Title
		if title == "" {
			title = "this deal"
		}
		return fmt.Sprintf("Great! We'll let the brand know you're open to negotiating %q.", title), nil

	default: // affirmative
		deal.Status = dealdomain.StatusActive
		deal.Summary = summary
		if parsed != nil && parsed.AIInsight != nil && parsed.AIInsight.Summary != "" {
			deal.AISummary = parsed.AIInsight.Summary
		}
		if confidence != nil {
			deal.AIConfidence = *confidence
		}
		if err := u.dealRepo.Update(deal); err != nil {
			return "", fmt.Errorf("failed to confirm deal: %w", err)
		}
		if err := u.emailRepo.UpdateClassification(email.ID, dealdomain.ClassificationDealConfirmed); err != nil {
			return "", fmt.Errorf("failed to update email classification: %w", err)
		}
		title := deal.Title
		if title == "" {
			title = "New deal"
		}
		return fmt.Sprintf("Great! %q is confirmed. We'll follow up with next steps.", title), nil
	}
}

type intent int

const (
	intentUnknown intent = iota
	intentAffirmative
	intentNegotiate
	intentNegative
)

// classifyIntent maps a free-text reply onto one of the three verbs the
// prompt offers. The keyword sets are hand-tuned; anything outside them is
// intentionally unknown ("sure" does not accept a deal).
func classifyIntent(body string) intent {
	lower := strings.ToLower(strings.TrimSpace(body))
	normalized := strings.TrimSpace(bodySeparator.ReplaceAllString(lower, " "))

	switch {
	case normalized == "yes" || normalized == "y" || normalized == "accept" ||
		strings.HasPrefix(normalized, "yes ") || strings.HasPrefix(normalized, "y ") ||
		strings.HasPrefix(normalized, "ok") || strings.Contains(lower, "\U0001F44D"):
		return intentAffirmative
	case normalized == "negotiate" || normalized == "negotiation" ||
		strings.HasPrefix(normalized, "negotiate ") || strings.HasPrefix(normalized, "neg "):
		return intentNegotiate
	case normalized == "no" || normalized == "n" || normalized == "reject" || normalized == "decline" ||
		strings.HasPrefix(normalized, "no ") || strings.HasPrefix(normalized, "n "):
		return intentNegative
	default:
		return intentUnknown
	}
}
