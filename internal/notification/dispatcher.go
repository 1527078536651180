package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	notificationdomain "dealpilot-backend/internal/notification/domain"
	"dealpilot-backend/internal/notification/repository"
)

// SMSContext links an outbound message back to the records that triggered it.
type SMSContext struct {
	DealID         string `json:"dealId,omitempty"`
	InboundEmailID string `json:"inboundEmailId,omitempty"`
}

// SendRequest is one delivery attempt over the secondary channel.
type SendRequest struct {
	CreatorID string
	To        string
	Body      string
	Context   SMSContext
}

// SendResult reports the outcome. Sent=false with a nil error is the valid
// "channel not configured" outcome; callers must not treat it as a failure.
type SendResult struct {
	Sent              bool
	ProviderMessageID string
}

// Dispatcher sends creator notifications over the secondary channel and
// durably records every successful attempt.
type Dispatcher struct {
	client       SMSClient
	outboundRepo repository.OutboundMessageRepository
	logger       *slog.Logger
}

func NewDispatcher(client SMSClient, outboundRepo repository.OutboundMessageRepository, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		client:       client,
		outboundRepo: outboundRepo,
		logger:       logger,
	}
}

func (d *Dispatcher) SendSMS(ctx context.Context, req SendRequest) (*SendResult, error) {
	if !d.client.Configured() {
		d.logger.Warn("skipping SMS notification, channel not configured",
			"creator_id", req.CreatorID,
			"deal_id", req.Context.DealID,
		)
		return &SendResult{Sent: false}, nil
	}

	providerID, err := d.client.Send(ctx, req.To, req.Body)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(req.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize SMS context: %w", err)
	}

	var dealID *string
	if req.Context.DealID != "" {
		id := req.Context.DealID
		dealID = &id
	}

	record := &notificationdomain.OutboundMessage{
		CreatorID:         req.CreatorID,
		DealID:            dealID,
		Channel:           notificationdomain.ChannelSMS,
		To:                req.To,
		Body:              req.Body,
		Payload:           string(payload),
		ProviderMessageID: providerID,
		Status:            notificationdomain.StatusSent,
		SentAt:            time.Now(),
	}
	if err := d.outboundRepo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to record outbound message: %w", err)
	}

	d.logger.Info("sent SMS notification",
		"creator_id", req.CreatorID,
		"deal_id", req.Context.DealID,
		"provider_message_id", providerID,
	)

	return &SendResult{Sent: true, ProviderMessageID: providerID}, nil
}
