package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// ErrMisconfigured means the channel has credentials but neither a messaging
// service SID nor a from number. That is an operational setup error, distinct
// from the valid "not configured at all" state.
var ErrMisconfigured = errors.New("notification: messaging service SID or from number must be configured")

// SMSClient is the secondary-channel capability consumed by the dispatcher.
type SMSClient interface {
	// Configured reports whether the channel has usable credentials.
	Configured() bool
	// Send delivers the message and returns the provider message id.
	Send(ctx context.Context, to, body string) (string, error)
}

// TwilioClient implements SMSClient over the Twilio REST API.
type TwilioClient struct {
	client              *twilio.RestClient
	messagingServiceSID string
	fromNumber          string
}

// NewTwilioClient builds the client. Missing account credentials yield an
// unconfigured client, which is a valid state: delivery is skipped.
func NewTwilioClient(accountSID, authToken, messagingServiceSID, fromNumber string) *TwilioClient {
	c := &TwilioClient{
		messagingServiceSID: messagingServiceSID,
		fromNumber:          fromNumber,
	}
	if accountSID != "" && authToken != "" {
		c.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
	}
	return c
}

func (c *TwilioClient) Configured() bool {
	return c.client != nil
}

func (c *TwilioClient) Send(_ context.Context, to, body string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("notification: twilio client not initialized")
	}
	if c.messagingServiceSID == "" && c.fromNumber == "" {
		return "", ErrMisconfigured
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(body)
	// The messaging service takes precedence over a bare from number.
	if c.messagingServiceSID != "" {
		params.SetMessagingServiceSid(c.messagingServiceSID)
	} else {
		params.SetFrom(c.fromNumber)
	}

	resp, err := c.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio send failed: %w", err)
	}
	if resp.Sid == nil {
		return "", fmt.Errorf("twilio returned no message sid")
	}
	return *resp.Sid, nil
}
