package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"cloud.google.com/go/pubsub"

	creatorrepo "dealpilot-backend/internal/creator/repository"
)

// gmailNotification is the payload Gmail publishes on mailbox changes.
type gmailNotification struct {
	EmailAddress string `json:"emailAddress"`
	HistoryID    uint64 `json:"historyId"`
}

// Listener consumes Gmail watch notifications from a Pub/Sub subscription
// and triggers a sync run for the affected mailbox. Notifications are only a
// wake-up signal; the synchronizer still resumes from its own stored cursor.
type Listener struct {
	client         *pubsub.Client
	subscriptionID string
	creatorRepo    creatorrepo.CreatorRepository
	credentialRepo creatorrepo.CredentialRepository
	sync           *Synchronizer
	logger         *slog.Logger

	mu          sync.Mutex
	lastHistory map[string]uint64
	inflight    map[string]*sync.Mutex
}

func NewListener(
	ctx context.Context,
	projectID, topicID string,
	creatorRepo creatorrepo.CreatorRepository,
	credentialRepo creatorrepo.CredentialRepository,
	synchronizer *Synchronizer,
	logger *slog.Logger,
) (*Listener, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	return &Listener{
		client:         client,
		subscriptionID: topicID + "-sub",
		creatorRepo:    creatorRepo,
		credentialRepo: credentialRepo,
		sync:           synchronizer,
		logger:         logger,
		lastHistory:    map[string]uint64{},
		inflight:       map[string]*sync.Mutex{},
	}, nil
}

// Listen blocks receiving notifications until ctx is cancelled.
func (l *Listener) Listen(ctx context.Context) error {
	sub := l.client.Subscription(l.subscriptionID)
	l.logger.Info("listening for gmail notifications", "subscription", l.subscriptionID)

	err := sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		// Always ack: gmail retries are redundant, the cursor covers gaps.
		defer msg.Ack()
		l.handle(ctx, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("pubsub receive failed: %w", err)
	}
	return nil
}

func (l *Listener) Close() error {
	return l.client.Close()
}

func (l *Listener) handle(ctx context.Context, data []byte) {
	var note gmailNotification
	if err := json.Unmarshal(data, &note); err != nil {
		l.logger.Warn("discarding malformed gmail notification", "error", err)
		return
	}
	if note.EmailAddress == "" {
		return
	}

	if l.alreadySeen(note) {
		l.logger.Debug("skipping stale gmail notification",
			"email", note.EmailAddress,
			"history_id", note.HistoryID)
		return
	}

	creator, err := l.creatorRepo.FindByEmail(note.EmailAddress)
	if err != nil {
		l.logger.Error("creator lookup failed for notification",
			"email", note.EmailAddress,
			"error", err)
		return
	}
	if creator == nil {
		l.logger.Debug("notification for unknown mailbox", "email", note.EmailAddress)
		return
	}

	credential, err := l.credentialRepo.FindByCreatorID(creator.ID)
	if err != nil {
		l.logger.Error("credential lookup failed for notification",
			"creator_id", creator.ID,
			"error", err)
		return
	}
	if credential == nil {
		l.logger.Warn("notification for creator without stored credential",
			"creator_id", creator.ID)
		return
	}

	lock := l.lockFor(credential.ID)
	if !lock.TryLock() {
		l.logger.Debug("sync already running for credential, skipping trigger",
			"credential_id", credential.ID)
		return
	}
	defer lock.Unlock()

	if err := l.sync.Run(ctx, credential); err != nil {
		l.logger.Error("notification-triggered sync failed",
			"credential_id", credential.ID,
			"error", err)
	}
}

// alreadySeen records the latest notified history id per mailbox and reports
// whether this notification is at or behind it.
func (l *Listener) alreadySeen(note gmailNotification) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	last, ok := l.lastHistory[note.EmailAddress]
	if ok && note.HistoryID != 0 && note.HistoryID <= last {
		return true
	}
	if note.HistoryID > last {
		l.lastHistory[note.EmailAddress] = note.HistoryID
	}
	return false
}

func (l *Listener) lockFor(credentialID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.inflight[credentialID]
	if !ok {
		lock = &sync.Mutex{}
		l.inflight[credentialID] = lock
	}
	return lock
}
