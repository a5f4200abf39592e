// Package trust keeps the local ledger of handshake requests. The ledger is
// append-only and deduplicates on the peer key: once any request exists for
// a peer, later submissions are no-ops, so there is no retry after decline.
package trust

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zephy88r/AnoN-sub000/internal/kv"
	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

const (
	storageKey    = "trust_requests"
	schemaVersion = 1
)

// Ledger holds all trust requests, persisted as a whole on every mutation.
// Single writer per store; last write wins.
type Ledger struct {
	store *kv.Store
	nowFn func() time.Time

	mu       sync.Mutex
	requests []types.TrustRequest
	byPeer   map[string]int // peer key -> index into requests
}

// NewLedger loads the persisted ledger from the store.
func NewLedger(store *kv.Store) *Ledger {
	l := &Ledger{store: store, nowFn: time.Now}
	l.requests = kv.Get(store, storageKey, []types.TrustRequest{},
		&kv.Options[[]types.TrustRequest]{Version: schemaVersion})
	l.reindex()
	return l
}

// SetNowFunc overrides the clock. Intended for tests.
func (l *Ledger) SetNowFunc(fn func() time.Time) { l.nowFn = fn }

func (l *Ledger) reindex() {
	l.byPeer = make(map[string]int, len(l.requests))
	for i, r := range l.requests {
		if _, dup := l.byPeer[r.FromUserKey]; !dup {
			l.byPeer[r.FromUserKey] = i
		}
	}
}

func (l *Ledger) persist() {
	if err := kv.SetVersioned(l.store, storageKey, l.requests, schemaVersion); err != nil {
		// A swallowed write is acceptable: this state is a convenience
		// cache, not a source of truth.
		return
	}
}

// Submit records a new pending request unless any request (whatever its
// status) already references the peer key. Returns the stored record and
// whether a new one was created.
func (l *Ledger) Submit(sub types.TrustSubmission) (types.TrustRequest, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i, exists := l.byPeer[sub.FromUserKey]; exists {
		return l.requests[i], false
	}

	req := types.TrustRequest{
		ID:          uuid.NewString(),
		FromLabel:   sub.FromLabel,
		FromUserKey: sub.FromUserKey,
		PostID:      sub.PostID,
		Note:        strings.TrimSpace(sub.Note),
		CreatedAt:   l.nowFn().UTC(),
		Status:      types.TrustPending,
	}
	l.requests = append([]types.TrustRequest{req}, l.requests...)
	l.reindex()
	l.persist()
	return req, true
}

// Accept marks the matching request accepted. types.ErrNotFound when the id
// is unknown; the ledger is left untouched in that case.
func (l *Ledger) Accept(requestID string) error {
	return l.transition(requestID, types.TrustAccepted)
}

// Decline marks the matching request declined.
func (l *Ledger) Decline(requestID string) error {
	return l.transition(requestID, types.TrustDeclined)
}

func (l *Ledger) transition(requestID string, to types.TrustStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.requests {
		if l.requests[i].ID == requestID {
			l.requests[i].Status = to
			l.persist()
			return nil
		}
	}
	return types.ErrNotFound
}

// IsTrusted reports whether some request for the peer key is accepted.
func (l *Ledger) IsTrusted(userKey string) bool {
	return l.StatusFor(userKey) == types.TrustAccepted
}

// StatusFor returns the peer's handshake status, or TrustNone when no
// request exists.
func (l *Ledger) StatusFor(userKey string) types.TrustStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i, ok := l.byPeer[userKey]; ok {
		return l.requests[i].Status
	}
	return types.TrustNone
}

// Requests returns a copy of the ledger, newest first.
func (l *Ledger) Requests() []types.TrustRequest {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]types.TrustRequest, len(l.requests))
	copy(out, l.requests)
	return out
}
