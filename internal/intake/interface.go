package intake

import (
	"context"

	"dealpilot-backend/internal/notification"
	"dealpilot-backend/pkg/cursor"
	"dealpilot-backend/pkg/gmail"
)

// MailboxSession is the mailbox-client capability one sync run consumes.
// *gmail.Session satisfies it; tests substitute fakes.
type MailboxSession interface {
	ListHistory(ctx context.Context, since cursor.Value, pageToken string) (*gmail.HistoryPage, error)
	ListRecent(ctx context.Context, days, max int) ([]string, error)
	GetMessage(ctx context.Context, id string) (*gmail.Message, error)
	MarkRead(ctx context.Context, id string) error
	Profile(ctx context.Context) (*gmail.Profile, error)
	Credentials() gmail.Credentials
}

// SessionFactory opens an authorized mailbox session for a stored credential.
type SessionFactory interface {
	NewSession(ctx context.Context, creds gmail.Credentials, onTokenRefresh gmail.TokenUpdateFunc) (MailboxSession, error)
}

// Notifier dispatches the creator-facing opportunity notification.
type Notifier interface {
	SendSMS(ctx context.Context, req notification.SendRequest) (*notification.SendResult, error)
}

type gmailSessionFactory struct {
	service *gmail.Service
}

// NewGmailSessionFactory adapts pkg/gmail's service to the SessionFactory
// consumed here.
func NewGmailSessionFactory(service *gmail.Service) SessionFactory {
	return &gmailSessionFactory{service: service}
}

func (f *gmailSessionFactory) NewSession(ctx context.Context, creds gmail.Credentials, onTokenRefresh gmail.TokenUpdateFunc) (MailboxSession, error) {
	return f.service.NewSession(ctx, creds, onTokenRefresh)
}
