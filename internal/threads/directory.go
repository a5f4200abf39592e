// Package threads maps peer pairs (or redeemed link-card codes) onto chat
// threads with deterministic ids, and keeps the append-only message log per
// thread. The directory has no notion of authorization: trust gating happens
// at the call site.
package threads

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zephy88r/AnoN-sub000/internal/kv"
	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

const (
	threadsKey    = "chat_threads"
	messagesKey   = "chat_messages"
	schemaVersion = 1

	// Thread ids embed only a prefix of each participant key.
	keyPrefixLen = 8
)

// ThreadID derives the id for a pair of participant keys. The keys are
// sorted first, so ThreadID(a, b) == ThreadID(b, a).
func ThreadID(a, b string) string {
	pair := []string{truncateKey(a), truncateKey(b)}
	sort.Strings(pair)
	return "t_" + pair[0] + "_" + pair[1]
}

// ThreadIDFromCode derives the id for a thread opened by redeeming a
// link-card code rather than by mutual trust.
func ThreadIDFromCode(code string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(code) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return "lc_" + strings.ToLower(b.String())
}

func truncateKey(k string) string {
	if len(k) > keyPrefixLen {
		return k[:keyPrefixLen]
	}
	return k
}

// Directory is the persistent thread registry plus per-thread message logs.
type Directory struct {
	store *kv.Store
	nowFn func() time.Time

	mu       sync.Mutex
	threads  map[string]types.ChatThread
	messages map[string][]types.ChatTextMessage
}

// NewDirectory loads persisted threads and messages from the store.
func NewDirectory(store *kv.Store) *Directory {
	d := &Directory{store: store, nowFn: time.Now}
	d.threads = kv.Get(store, threadsKey, map[string]types.ChatThread{},
		&kv.Options[map[string]types.ChatThread]{Version: schemaVersion})
	d.messages = kv.Get(store, messagesKey, map[string][]types.ChatTextMessage{},
		&kv.Options[map[string][]types.ChatTextMessage]{Version: schemaVersion})
	return d
}

// SetNowFunc overrides the clock. Intended for tests.
func (d *Directory) SetNowFunc(fn func() time.Time) { d.nowFn = fn }

func (d *Directory) persistThreads() {
	_ = kv.SetVersioned(d.store, threadsKey, d.threads, schemaVersion)
}

func (d *Directory) persistMessages() {
	_ = kv.SetVersioned(d.store, messagesKey, d.messages, schemaVersion)
}

// EnsureThread returns the thread for the pair, creating it on first use.
// Calling it twice for the same pair (in either order) converges on one
// record with an unchanged CreatedAt.
func (d *Directory) EnsureThread(myKey, peerKey string) types.ChatThread {
	return d.ensure(ThreadID(myKey, peerKey), peerKey, "")
}

// EnsureThreadForCode is EnsureThread for code-derived threads.
func (d *Directory) EnsureThreadForCode(code, peerKey string) types.ChatThread {
	return d.ensure(ThreadIDFromCode(code), peerKey, code)
}

func (d *Directory) ensure(id, peerKey, code string) types.ChatThread {
	d.mu.Lock()
	defer d.mu.Unlock()

	if th, ok := d.threads[id]; ok {
		return th
	}
	th := types.ChatThread{
		ID:         id,
		PeerAnonID: peerKey,
		CreatedAt:  d.nowFn().UTC(),
		Code:       code,
	}
	d.threads[id] = th
	d.persistThreads()
	return th
}

// Get returns the thread by id.
func (d *Directory) Get(threadID string) (types.ChatThread, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	th, ok := d.threads[threadID]
	return th, ok
}

// Threads lists all threads, most recently active first.
func (d *Directory) Threads() []types.ChatThread {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]types.ChatThread, 0, len(d.threads))
	for _, th := range d.threads {
		out = append(out, th)
	}
	sort.Slice(out, func(i, j int) bool {
		return lastActivity(out[i]).After(lastActivity(out[j]))
	})
	return out
}

func lastActivity(th types.ChatThread) time.Time {
	if th.LastMessageAt != nil {
		return *th.LastMessageAt
	}
	return th.CreatedAt
}

// Touch bumps the thread's LastMessageAt. No-op when the thread does not
// exist.
func (d *Directory) Touch(threadID string, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	th, ok := d.threads[threadID]
	if !ok {
		return
	}
	at = at.UTC()
	th.LastMessageAt = &at
	d.threads[threadID] = th
	d.persistThreads()
}

// SendText appends an outgoing message to the thread's log and bumps the
// thread. Blank text (after trimming) is dropped.
func (d *Directory) SendText(threadID, text string) (types.ChatTextMessage, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return types.ChatTextMessage{}, false
	}
	return d.append(threadID, trimmed, true, d.nowFn().UTC()), true
}

// AppendIncoming records a message received from the peer.
func (d *Directory) AppendIncoming(threadID, text string, at time.Time) types.ChatTextMessage {
	return d.append(threadID, text, false, at.UTC())
}

func (d *Directory) append(threadID, text string, fromMe bool, at time.Time) types.ChatTextMessage {
	d.mu.Lock()
	defer d.mu.Unlock()

	msg := types.ChatTextMessage{
		ID:        "m_" + uuid.NewString(),
		FromMe:    fromMe,
		Text:      text,
		CreatedAt: at,
	}
	d.messages[threadID] = append(d.messages[threadID], msg)
	d.persistMessages()

	if th, ok := d.threads[threadID]; ok {
		th.LastMessageAt = &msg.CreatedAt
		d.threads[threadID] = th
		d.persistThreads()
	}
	return msg
}

// Messages returns the thread's log in append order.
func (d *Directory) Messages(threadID string) []types.ChatTextMessage {
	d.mu.Lock()
	defer d.mu.Unlock()

	msgs := d.messages[threadID]
	out := make([]types.ChatTextMessage, len(msgs))
	copy(out, msgs)
	return out
}

// LastMessage returns the newest message in the thread, if any.
func (d *Directory) LastMessage(threadID string) (types.ChatTextMessage, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	msgs := d.messages[threadID]
	if len(msgs) == 0 {
		return types.ChatTextMessage{}, false
	}
	return msgs[len(msgs)-1], true
}
