package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	creatordomain "dealpilot-backend/internal/creator/domain"
	creatorrepo "dealpilot-backend/internal/creator/repository"
	dealdomain "dealpilot-backend/internal/deal/domain"
	dealrepo "dealpilot-backend/internal/deal/repository"
	"dealpilot-backend/internal/notification"
	"dealpilot-backend/pkg/ai"
	"dealpilot-backend/pkg/cursor"
	"dealpilot-backend/pkg/extract"
	"dealpilot-backend/pkg/gmail"
)

// Synchronizer drains new mailbox messages for each stored credential,
// classifies them, and files deals plus notifications for the candidates.
type Synchronizer struct {
	sessions       SessionFactory
	creatorRepo    creatorrepo.CreatorRepository
	credentialRepo creatorrepo.CredentialRepository
	emailRepo      dealrepo.InboundEmailRepository
	dealRepo       dealrepo.DealRepository
	brandRepo      dealrepo.BrandRepository
	insights       *InsightProvider
	notifier       Notifier
	logger         *slog.Logger

	fallbackDays int
	fallbackMax  int
}

func NewSynchronizer(
	sessions SessionFactory,
	creatorRepo creatorrepo.CreatorRepository,
	credentialRepo creatorrepo.CredentialRepository,
	emailRepo dealrepo.InboundEmailRepository,
	dealRepo dealrepo.DealRepository,
	brandRepo dealrepo.BrandRepository,
	insights *InsightProvider,
	notifier Notifier,
	logger *slog.Logger,
	fallbackDays, fallbackMax int,
) *Synchronizer {
	if fallbackDays <= 0 {
		fallbackDays = 7
	}
	if fallbackMax <= 0 {
		fallbackMax = 10
	}
	return &Synchronizer{
		sessions:       sessions,
		creatorRepo:    creatorRepo,
		credentialRepo: credentialRepo,
		emailRepo:      emailRepo,
		dealRepo:       dealRepo,
		brandRepo:      brandRepo,
		insights:       insights,
		notifier:       notifier,
		logger:         logger,
		fallbackDays:   fallbackDays,
		fallbackMax:    fallbackMax,
	}
}

// RunAll syncs every stored credential sequentially. A failing credential
// does not stop the others; their errors are joined.
func (s *Synchronizer) RunAll(ctx context.Context) error {
	credentials, err := s.credentialRepo.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list gmail credentials: %w", err)
	}

	var errs []error
	for _, credential := range credentials {
		if err := s.Run(ctx, credential); err != nil {
			s.logger.Error("mailbox sync failed",
				"credential_id", credential.ID,
				"creator_id", credential.CreatorID,
				"error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run performs one sync pass over a single credential's mailbox.
func (s *Synchronizer) Run(ctx context.Context, credential *creatordomain.GmailCredential) error {
	creator, err := s.creatorRepo.FindByID(credential.CreatorID)
	if err != nil {
		return fmt.Errorf("failed to load creator %s: %w", credential.CreatorID, err)
	}
	if creator == nil {
		return fmt.Errorf("credential %s references missing creator %s", credential.ID, credential.CreatorID)
	}

	meta := cursor.ParseMetadata(credential.Metadata)
	start := meta.ResumePoint()
	working := start

	creds := gmail.Credentials{
		AccessToken:  credential.AccessToken,
		RefreshToken: credential.RefreshToken,
	}
	if credential.ExpiryDate != nil {
		creds.Expiry = *credential.ExpiryDate
	}

	session, err := s.sessions.NewSession(ctx, creds, nil)
	if err != nil {
		return fmt.Errorf("failed to open mailbox session: %w", err)
	}

	var queue []string
	seen := map[string]bool{}
	enqueue := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		queue = append(queue, id)
	}

	if !start.IsZero() {
		pageToken := ""
		for {
			page, err := session.ListHistory(ctx, start, pageToken)
			if errors.Is(err, gmail.ErrCursorExpired) {
				s.logger.Warn("history cursor expired, falling back to recent messages",
					"creator_id", creator.ID,
					"cursor", start.String())
				start = ""
				working = ""
				break
			}
			if err != nil {
				return fmt.Errorf("failed to list mailbox history: %w", err)
			}

			for _, item := range page.Items {
				working = cursor.Merge(working, item.ChangeID)
				for _, id := range item.AddedMessageIDs {
					enqueue(id)
				}
			}
			working = cursor.Merge(working, page.CursorEcho)

			if page.NextPageToken == "" {
				break
			}
			pageToken = page.NextPageToken
		}
	}

	if start.IsZero() && len(queue) == 0 {
		ids, err := session.ListRecent(ctx, s.fallbackDays, s.fallbackMax)
		if err != nil {
			return fmt.Errorf("failed to list recent messages: %w", err)
		}
		for _, id := range ids {
			enqueue(id)
		}
	}

	s.logger.Info("mailbox sync started",
		"creator_id", creator.ID,
		"queued", len(queue),
		"cursor", start.String())

	for _, id := range queue {
		advanced, err := s.processMessage(ctx, session, creator, id)
		if err != nil {
			return err
		}
		working = cursor.Merge(working, advanced)
	}

	profile, err := session.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch mailbox profile: %w", err)
	}

	final := cursor.Merge(cursor.Merge(working, profile.Cursor), meta.ResumePoint())

	next := meta
	if !profile.Cursor.IsZero() {
		next.HistoryID = profile.Cursor
	}
	next.LastHistoryID = final
	if profile.MessagesTotal > 0 {
		next.MessagesTotal = profile.MessagesTotal
	}
	if profile.ThreadsTotal > 0 {
		next.ThreadsTotal = profile.ThreadsTotal
	}

	encoded, err := next.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode sync metadata: %w", err)
	}
	if err := s.credentialRepo.UpdateMetadata(credential.ID, encoded); err != nil {
		return fmt.Errorf("failed to persist sync metadata: %w", err)
	}

	if err := s.persistRotatedTokens(credential, session.Credentials()); err != nil {
		return err
	}

	s.logger.Info("mailbox sync finished",
		"creator_id", creator.ID,
		"processed", len(queue),
		"cursor", final.String())

	return nil
}

// processMessage ingests one message and returns the cursor advance it
// contributes. Messages already ingested or deleted upstream are skipped.
func (s *Synchronizer) processMessage(ctx context.Context, session MailboxSession, creator *creatordomain.Creator, messageID string) (cursor.Value, error) {
	exists, err := s.emailRepo.ExistsByGmailMessageID(messageID)
	if err != nil {
		return "", fmt.Errorf("failed idempotency check for message %s: %w", messageID, err)
	}
	if exists {
		s.logger.Debug("skipping already ingested message", "gmail_message_id", messageID)
		return "", nil
	}

	msg, err := session.GetMessage(ctx, messageID)
	if errors.Is(err, gmail.ErrMessageGone) {
		s.logger.Warn("skipping message deleted upstream", "gmail_message_id", messageID)
		return "", nil
	}
	if err != nil {
		return "", err
	}

	subject := msg.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	from := msg.From
	if from == "" {
		from = "unknown"
	}
	to := msg.To
	if to == "" {
		to = creator.Email
	}

	insight := s.insights.Generate(ctx, ai.InsightRequest{
		EmailSubject: subject,
		EmailBody:    msg.BodyText,
		CreatorProfile: ai.CreatorProfile{
			Name:  creator.DisplayName,
			Niche: creator.Preferences,
		},
	})

	isCandidate := matchesDealKeywords(subject, msg.BodyText) ||
		insight.Classification == ai.ClassificationDeal

	classification := dealdomain.ClassificationNonDeal
	if isCandidate {
		classification = dealdomain.ClassificationDealPending
	}

	details := extract.DealDetails(msg.BodyText)
	brandName := extract.BrandName(subject, from)

	parsed, err := json.Marshal(dealdomain.ParsedEmailData{
		BodyText:      msg.BodyText,
		AIInsight:     insight,
		ParsedDetails: details,
	})
	if err != nil {
		return "", fmt.Errorf("failed to serialize parsed email data: %w", err)
	}

	receivedAt := msg.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	email := &dealdomain.InboundEmail{
		ID:                       uuid.New().String(),
		GmailMessageID:           msg.ID,
		GmailThreadID:            msg.ThreadID,
		Subject:                  subject,
		FromAddress:              from,
		ToAddress:                to,
		CcAddresses:              msg.Cc,
		Snippet:                  msg.Snippet,
		RawPayload:               string(msg.Raw),
		ParsedData:               string(parsed),
		Classification:           classification,
		ClassificationConfidence: insight.Confidence,
		ReceivedAt:               receivedAt,
		ProcessedAt:              time.Now(),
		CreatorID:                creator.ID,
	}
	if err := s.emailRepo.Create(email); err != nil {
		return "", fmt.Errorf("failed to store inbound email %s: %w", msg.ID, err)
	}

	if isCandidate {
		if err := s.fileDeal(ctx, creator, email, msg, insight, details, brandName); err != nil {
			return "", err
		}
	} else {
		s.logger.Info("ingested non-deal email",
			"gmail_message_id", msg.ID,
			"subject", subject)
	}

	if err := session.MarkRead(ctx, messageID); err != nil {
		return "", fmt.Errorf("failed to mark message %s read: %w", messageID, err)
	}

	return msg.ChangeID, nil
}

func (s *Synchronizer) fileDeal(
	ctx context.Context,
	creator *creatordomain.Creator,
	email *dealdomain.InboundEmail,
	msg *gmail.Message,
	insight *ai.Insight,
	details extract.Details,
	brandName string,
) error {
	var brandID *string
	if domain := extract.SenderDomain(email.FromAddress); brandName != "" && domain != "" {
		brand, err := s.brandRepo.Upsert(brandName, domain, extract.SenderAddress(email.FromAddress))
		if err != nil {
			s.logger.Warn("brand upsert failed, filing deal without brand",
				"brand", brandName,
				"error", err)
		} else if brand != nil {
			brandID = &brand.ID
		}
	}

	metadata, err := json.Marshal(insight)
	if err != nil {
		return fmt.Errorf("failed to serialize deal insight: %w", err)
	}

	deal := &dealdomain.Deal{
		ID:             uuid.New().String(),
		CreatorID:      creator.ID,
		InboundEmailID: &email.ID,
		BrandID:        brandID,
		Title:          email.Subject,
		Summary:        insight.Summary,
		AISummary:      insight.Summary,
		AIConfidence:   insight.Confidence,
		Status:         dealdomain.StatusPendingCreator,
		Source:         dealdomain.SourceEmail,
		Metadata:       string(metadata),
	}
	if err := s.dealRepo.Create(deal); err != nil {
		return fmt.Errorf("failed to create deal for email %s: %w", msg.ID, err)
	}

	s.logger.Info("filed deal candidate",
		"deal_id", deal.ID,
		"gmail_message_id", msg.ID,
		"subject", email.Subject)

	if creator.PhoneNumber == "" {
		s.logger.Warn("creator has no phone number, skipping SMS notification",
			"creator_id", creator.ID,
			"deal_id", deal.ID)
		return nil
	}

	body := notification.BuildSMSBody(brandName, email.Subject, email.FromAddress, details)
	_, err = s.notifier.SendSMS(ctx, notification.SendRequest{
		CreatorID: creator.ID,
		To:        creator.PhoneNumber,
		Body:      body,
		Context: notification.SMSContext{
			DealID:         deal.ID,
			InboundEmailID: email.ID,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send deal notification: %w", err)
	}
	return nil
}

// persistRotatedTokens writes back the session's live token set when the
// provider rotated it during the run.
func (s *Synchronizer) persistRotatedTokens(credential *creatordomain.GmailCredential, live gmail.Credentials) error {
	rotated := live.AccessToken != "" && live.AccessToken != credential.AccessToken
	if live.RefreshToken != "" && live.RefreshToken != credential.RefreshToken {
		rotated = true
	}
	if !rotated {
		return nil
	}

	var expiry *time.Time
	if !live.Expiry.IsZero() {
		e := live.Expiry
		expiry = &e
	}
	if err := s.credentialRepo.UpdateTokens(credential.ID, live.AccessToken, live.RefreshToken, expiry); err != nil {
		return fmt.Errorf("failed to persist rotated tokens: %w", err)
	}

	s.logger.Info("persisted rotated gmail tokens", "credential_id", credential.ID)
	return nil
}
