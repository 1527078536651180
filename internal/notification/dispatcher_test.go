package notification

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	notificationdomain "dealpilot-backend/internal/notification/domain"
	"dealpilot-backend/pkg/extract"
)

type fakeSMSClient struct {
	configured bool
	sendErr    error
	sentTo     []string
	sentBodies []string
}

func (f *fakeSMSClient) Configured() bool { return f.configured }

func (f *fakeSMSClient) Send(_ context.Context, to, body string) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sentTo = append(f.sentTo, to)
	f.sentBodies = append(f.sentBodies, body)
	return "SM123", nil
}

type fakeOutboundRepo struct {
	rows []*notificationdomain.OutboundMessage
}

func (f *fakeOutboundRepo) Create(m *notificationdomain.OutboundMessage) error {
	f.rows = append(f.rows, m)
	return nil
}

func (f *fakeOutboundRepo) ListByCreator(string) ([]*notificationdomain.OutboundMessage, error) {
	return f.rows, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSendSMSUnconfiguredIsNotAnError(t *testing.T) {
	repo := &fakeOutboundRepo{}
	d := NewDispatcher(&fakeSMSClient{configured: false}, repo, discardLogger())

	result, err := d.SendSMS(context.Background(), SendRequest{
		CreatorID: "c1",
		To:        "+15551234567",
		Body:      "hello",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sent {
		t.Error("unconfigured channel must report Sent=false")
	}
	if len(repo.rows) != 0 {
		t.Errorf("unconfigured channel must not record rows, got %d", len(repo.rows))
	}
}

func TestSendSMSMisconfiguredIsFatal(t *testing.T) {
	repo := &fakeOutboundRepo{}
	d := NewDispatcher(&fakeSMSClient{configured: true, sendErr: ErrMisconfigured}, repo, discardLogger())

	_, err := d.SendSMS(context.Background(), SendRequest{CreatorID: "c1", To: "+1555", Body: "x"})
	if !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("want ErrMisconfigured, got %v", err)
	}
	if len(repo.rows) != 0 {
		t.Errorf("failed send must not record rows, got %d", len(repo.rows))
	}
}

func TestSendSMSRecordsOutboundMessage(t *testing.T) {
	client := &fakeSMSClient{configured: true}
	repo := &fakeOutboundRepo{}
	d := NewDispatcher(client, repo, discardLogger())

	result, err := d.SendSMS(context.Background(), SendRequest{
		CreatorID: "c1",
		To:        "+15551234567",
		Body:      "New brand deal from Acme.",
		Context:   SMSContext{DealID: "d1", InboundEmailID: "e1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Sent || result.ProviderMessageID != "SM123" {
		t.Fatalf("unexpected result: %+v", result)
	}

	if len(repo.rows) != 1 {
		t.Fatalf("want one outbound row, got %d", len(repo.rows))
	}
	row := repo.rows[0]
	if row.Channel != notificationdomain.ChannelSMS || row.Status != notificationdomain.StatusSent {
		t.Errorf("unexpected row channel/status: %s/%s", row.Channel, row.Status)
	}
	if row.DealID == nil || *row.DealID != "d1" {
		t.Errorf("deal id not recorded: %v", row.DealID)
	}
	if row.ProviderMessageID != "SM123" {
		t.Errorf("provider message id = %q", row.ProviderMessageID)
	}
}

func TestBuildSMSBody(t *testing.T) {
	cases := []struct {
		name    string
		brand   string
		subject string
		from    string
		details extract.Details
		want    string
	}{
		{
			name:    "brand with all details",
			brand:   "Acme",
			subject: "Sponsorship",
			from:    "jane@acme.com",
			details: extract.Details{Budget: "$15,000", Deliverables: "2 reels", DueDate: "11/15/2025"},
			want:    `New brand deal from Acme. Budget $15,000. Deliverables: 2 reels. Due 11/15/2025. Reply YES to accept, or NEGOTIATE to discuss terms, or REJECT to pass.`,
		},
		{
			name:    "no brand quotes subject and sender",
			subject: "Quick collab?",
			from:    "jane@acme.com",
			want:    `New brand inquiry: "Quick collab?" from jane@acme.com. Reply YES to accept, or NEGOTIATE to discuss terms, or REJECT to pass.`,
		},
		{
			name:    "partial details",
			brand:   "Acme",
			details: extract.Details{Budget: "$500"},
			want:    `New brand deal from Acme. Budget $500. Reply YES to accept, or NEGOTIATE to discuss terms, or REJECT to pass.`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildSMSBody(tc.brand, tc.subject, tc.from, tc.details)
			if got != tc.want {
				t.Errorf("BuildSMSBody() =\n%q\nwant\n%q", got, tc.want)
			}
		})
	}
}

func TestBuildSMSBodyCollapsesWhitespace(t *testing.T) {
	got := BuildSMSBody("", "Line\none", "a@b.com", extract.Details{Deliverables: "3  posts\tand 1 story"})
	for _, bad := range []string{"\n", "\t", "  "} {
		if strings.Contains(got, bad) {
			t.Errorf("body still contains %q: %q", bad, got)
		}
	}
}
