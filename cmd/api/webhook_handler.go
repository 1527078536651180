package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/twiml"

	"dealpilot-backend/internal/reply"
)

// TwilioWebhook receives creator SMS replies. Any recognizable request gets a
// TwiML message document back; only an absent or digit-free sender is a 400.
func (h *Handler) TwilioWebhook(c *gin.Context) {
	from := strings.TrimSpace(c.PostForm("From"))
	body := strings.TrimSpace(c.PostForm("Body"))

	if from == "" {
		h.logger.Warn("twilio webhook missing From number")
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Missing sender phone number"}})
		return
	}

	normalized := reply.NormalizePhone(from)
	if normalized == "" {
		h.logger.Warn("unable to normalize inbound phone number", "from", from)
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid sender phone number"}})
		return
	}

	h.logger.Info("processing inbound twilio webhook", "from", normalized)

	message, err := h.replyUsecase.Handle(normalized, body)
	if err != nil {
		h.logger.Error("failed to process creator reply", "from", normalized, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Internal server error"}})
		return
	}

	doc, err := twiml.Messages([]twiml.Element{
		&twiml.MessagingMessage{Body: message},
	})
	if err != nil {
		h.logger.Error("failed to render twiml response", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Internal server error"}})
		return
	}

	c.Data(http.StatusOK, "text/xml", []byte(doc))
}

// GmailWebhook only acknowledges; mailbox changes are picked up through the
// Pub/Sub subscription, not this endpoint.
func (h *Handler) GmailWebhook(c *gin.Context) {
	payload, _ := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	h.logger.Info("received gmail webhook payload", "body", string(payload))
	c.JSON(http.StatusAccepted, gin.H{"received": true})
}
