package intake

import (
	"sync"
	"testing"
)

func TestListenerNotificationDedup(t *testing.T) {
	l := &Listener{
		lastHistory: map[string]uint64{},
		inflight:    map[string]*sync.Mutex{},
	}

	if l.alreadySeen(gmailNotification{EmailAddress: "jo@example.com", HistoryID: 100}) {
		t.Error("first notification must not be deduped")
	}
	if !l.alreadySeen(gmailNotification{EmailAddress: "jo@example.com", HistoryID: 100}) {
		t.Error("repeated history id must be deduped")
	}
	if !l.alreadySeen(gmailNotification{EmailAddress: "jo@example.com", HistoryID: 90}) {
		t.Error("older history id must be deduped")
	}
	if l.alreadySeen(gmailNotification{EmailAddress: "jo@example.com", HistoryID: 101}) {
		t.Error("newer history id must pass")
	}
	if l.alreadySeen(gmailNotification{EmailAddress: "other@example.com", HistoryID: 50}) {
		t.Error("dedup is per mailbox")
	}
}

func TestListenerSingleFlightLocks(t *testing.T) {
	l := &Listener{
		lastHistory: map[string]uint64{},
		inflight:    map[string]*sync.Mutex{},
	}

	lock := l.lockFor("cred-1")
	if lock != l.lockFor("cred-1") {
		t.Error("same credential must share one lock")
	}
	if lock == l.lockFor("cred-2") {
		t.Error("different credentials must not share a lock")
	}

	lock.Lock()
	if l.lockFor("cred-1").TryLock() {
		t.Error("held lock must reject a second run")
	}
	lock.Unlock()
}
