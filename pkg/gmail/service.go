package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dealpilot-backend/pkg/cursor"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// TokenUpdateFunc is a callback invoked when the underlying token source
// rotates the access token.
type TokenUpdateFunc func(token *oauth2.Token) error

type Service struct {
	clientID     string
	clientSecret string
}

func NewService(clientID, clientSecret string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// Credentials is the token set stored on a GmailCredential row.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.current.AccessToken != t.AccessToken {
		s.current = t
		if s.callback != nil {
			if err := s.callback(t); err != nil {
				return nil, fmt.Errorf("token update callback failed: %w", err)
			}
		}
	}
	return t, nil
}

// Session is one authorized mailbox connection bound to a credential.
type Session struct {
	srv    *gmailapi.Service
	source *notifyTokenSource
}

// NewSession builds a Gmail session for the given stored credential. A
// refresh token forces an immediate refresh so expired access tokens never
// reach the API.
func (s *Service) NewSession(ctx context.Context, creds Credentials, onTokenRefresh TokenUpdateFunc) (*Session, error) {
	token := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       creds.Expiry,
	}
	if creds.RefreshToken != "" && creds.AccessToken == "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	source := &notifyTokenSource{
		src:      config.TokenSource(ctx, token),
		current:  token,
		callback: onTokenRefresh,
	}

	client := oauth2.NewClient(ctx, source)
	srv, err := gmailapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}

	return &Session{srv: srv, source: source}, nil
}

// Credentials returns the live token set, which may be newer than the stored
// one after a refresh mid-session.
func (s *Session) Credentials() Credentials {
	t := s.source.current
	return Credentials{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
}

// HistoryItem is one change-feed record.
type HistoryItem struct {
	ChangeID        cursor.Value
	AddedMessageIDs []string
}

// HistoryPage is one page of the incremental change feed.
type HistoryPage struct {
	Items         []HistoryItem
	CursorEcho    cursor.Value
	NextPageToken string
}

// ListHistory pages through message-added history records since the given
// cursor. A cursor the upstream rejects yields ErrCursorExpired.
func (s *Session) ListHistory(ctx context.Context, since cursor.Value, pageToken string) (*HistoryPage, error) {
	start, ok := since.Uint64()
	if !ok {
		return nil, ErrCursorExpired
	}

	call := s.srv.Users.History.List("me").
		StartHistoryId(start).
		HistoryTypes("messageAdded").
		MaxResults(100).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		if isStatus(err, 404) {
			return nil, ErrCursorExpired
		}
		return nil, fmt.Errorf("unable to list history: %w", err)
	}

	page := &HistoryPage{NextPageToken: resp.NextPageToken}
	if resp.HistoryId > 0 {
		page.CursorEcho = cursor.Value(strconv.FormatUint(resp.HistoryId, 10))
	}

	for _, record := range resp.History {
		item := HistoryItem{}
		if record.Id > 0 {
			item.ChangeID = cursor.Value(strconv.FormatUint(record.Id, 10))
		}
		for _, added := range record.MessagesAdded {
			if added.Message != nil && added.Message.Id != "" {
				item.AddedMessageIDs = append(item.AddedMessageIDs, added.Message.Id)
			}
		}
		page.Items = append(page.Items, item)
	}

	return page, nil
}

// ListRecent lists the most recent inbox message ids within the given day
// window, oldest first, bounding the first-run backfill.
func (s *Session) ListRecent(ctx context.Context, days, max int) ([]string, error) {
	resp, err := s.srv.Users.Messages.List("me").
		LabelIds("INBOX").
		MaxResults(int64(max)).
		Q(fmt.Sprintf("newer_than:%dd", days)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list recent messages: %w", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for i := len(resp.Messages) - 1; i >= 0; i-- {
		if resp.Messages[i].Id != "" {
			ids = append(ids, resp.Messages[i].Id)
		}
	}
	return ids, nil
}

// Message is a fully fetched mailbox message.
type Message struct {
	ID         string
	ThreadID   string
	ChangeID   cursor.Value
	Subject    string
	From       string
	To         string
	Cc         string
	Snippet    string
	BodyText   string
	ReceivedAt time.Time
	Raw        json.RawMessage
}

// GetMessage fetches the full message. A message deleted upstream yields
// ErrMessageGone.
func (s *Session) GetMessage(ctx context.Context, id string) (*Message, error) {
	msg, err := s.srv.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
	if err != nil {
		if isStatus(err, 404) {
			return nil, ErrMessageGone
		}
		return nil, fmt.Errorf("unable to retrieve message %s: %w", id, err)
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize message payload: %w", err)
	}

	headers := headersToMap(msg.Payload)

	out := &Message{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Subject:  headers["subject"],
		From:     headers["from"],
		To:       headers["to"],
		Cc:       headers["cc"],
		Snippet:  msg.Snippet,
		BodyText: extractPlainTextBody(msg.Payload),
		Raw:      raw,
	}
	if msg.HistoryId > 0 {
		out.ChangeID = cursor.Value(strconv.FormatUint(msg.HistoryId, 10))
	}
	if msg.InternalDate > 0 {
		out.ReceivedAt = time.UnixMilli(msg.InternalDate)
	} else {
		out.ReceivedAt = time.Now()
	}

	return out, nil
}

// MarkRead removes the UNREAD label.
func (s *Session) MarkRead(ctx context.Context, id string) error {
	_, err := s.srv.Users.Messages.Modify("me", id, &gmailapi.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to mark message as read: %w", err)
	}
	return nil
}

// Profile describes the account and its current history position.
type Profile struct {
	EmailAddress  string
	Cursor        cursor.Value
	MessagesTotal int64
	ThreadsTotal  int64
}

func (s *Session) Profile(ctx context.Context) (*Profile, error) {
	resp, err := s.srv.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to fetch profile: %w", err)
	}

	profile := &Profile{
		EmailAddress:  resp.EmailAddress,
		MessagesTotal: resp.MessagesTotal,
		ThreadsTotal:  resp.ThreadsTotal,
	}
	if resp.HistoryId > 0 {
		profile.Cursor = cursor.Value(strconv.FormatUint(resp.HistoryId, 10))
	}
	return profile, nil
}

// Helper functions

func headersToMap(payload *gmailapi.MessagePart) map[string]string {
	headers := map[string]string{}
	if payload == nil {
		return headers
	}
	for _, header := range payload.Headers {
		if header.Name != "" && header.Value != "" {
			headers[strings.ToLower(header.Name)] = header.Value
		}
	}
	return headers
}

// extractPlainTextBody walks the MIME tree preferring text/plain parts; the
// classifier and the field extractors both work on plain text.
func extractPlainTextBody(payload *gmailapi.MessagePart) string {
	if payload == nil {
		return ""
	}

	if payload.MimeType == "text/plain" && payload.Body != nil && payload.Body.Data != "" {
		return decodeBase64URL(payload.Body.Data)
	}

	for _, part := range payload.Parts {
		if text := extractPlainTextBody(part); text != "" {
			return text
		}
	}

	if payload.Body != nil {
		return decodeBase64URL(payload.Body.Data)
	}
	return ""
}

func decodeBase64URL(data string) string {
	if data == "" {
		return ""
	}
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	if decoded, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	return ""
}
