package domain

import (
	"encoding/json"
	"time"

	"dealpilot-backend/pkg/ai"
	"dealpilot-backend/pkg/extract"
)

// Classification values for an inbound email. DEAL_PENDING_CREATOR and
// NON_DEAL are produced at intake; the terminal tags are written by the reply
// state machine.
const (
	ClassificationDealPending     = "DEAL_PENDING_CREATOR"
	ClassificationNonDeal         = "NON_DEAL"
	ClassificationDealConfirmed   = "DEAL_CONFIRMED_BY_CREATOR"
	ClassificationDealNegotiate   = "DEAL_NEGOTIATE_BY_CREATOR"
	ClassificationDealUnqualified = "DEAL_UNQUALIFIED"
)

// InboundEmail is one ingested mailbox message. GmailMessageID is the
// idempotency key: reprocessing the same upstream message is a no-op. Rows
// are immutable after creation except Classification.
type InboundEmail struct {
	ID                       string    `json:"id" gorm:"primaryKey"`
	GmailMessageID           string    `json:"gmail_message_id" gorm:"uniqueIndex;not null"`
	GmailThreadID            string    `json:"gmail_thread_id,omitempty"`
	Subject                  string    `json:"subject"`
	FromAddress              string    `json:"from_address"`
	ToAddress                string    `json:"to_address"`
	CcAddresses              string    `json:"cc_addresses,omitempty"`
	Snippet                  string    `json:"snippet" gorm:"type:text"`
	RawPayload               string    `json:"-" gorm:"type:text"`
	ParsedData               string    `json:"-" gorm:"type:text"`
	Classification           string    `json:"classification" gorm:"index"`
	ClassificationConfidence float64   `json:"classification_confidence"`
	ReceivedAt               time.Time `json:"received_at"`
	ProcessedAt              time.Time `json:"processed_at"`
	CreatorID                string    `json:"creator_id" gorm:"index;not null"`
	CreatedAt                time.Time `json:"created_at"`
}

// ParsedEmailData is the JSON blob stored in InboundEmail.ParsedData.
type ParsedEmailData struct {
	BodyText      string          `json:"bodyText"`
	AIInsight     *ai.Insight     `json:"aiInsight,omitempty"`
	ParsedDetails extract.Details `json:"parsedDetails"`
}

// DecodeParsedData tolerantly decodes the blob; malformed data yields nil.
func (e *InboundEmail) DecodeParsedData() *ParsedEmailData {
	if e.ParsedData == "" {
		return nil
	}
	var parsed ParsedEmailData
	if err := json.Unmarshal([]byte(e.ParsedData), &parsed); err != nil {
		return nil
	}
	return &parsed
}
