// Package linkcards manages one-time bridging codes. A card moves from
// active to exactly one terminal state (used, revoked or expired); expiry is
// derived from the clock at read time and never written back eagerly.
package linkcards

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zephy88r/AnoN-sub000/internal/kv"
	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

const (
	storageKey    = "link_cards"
	schemaVersion = 1

	// MaxActive caps how many cards may be active at once per account.
	MaxActive = 3

	// DefaultTTL is how long a fresh card stays redeemable.
	DefaultTTL = 24 * time.Hour

	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Registry holds the account's link cards, persisted as a whole on every
// mutation.
type Registry struct {
	store *kv.Store
	nowFn func() time.Time

	mu    sync.Mutex
	cards []types.LinkCard
}

// NewRegistry loads persisted cards from the store.
func NewRegistry(store *kv.Store) *Registry {
	r := &Registry{store: store, nowFn: time.Now}
	r.cards = kv.Get(store, storageKey, []types.LinkCard{},
		&kv.Options[[]types.LinkCard]{Version: schemaVersion})
	return r
}

// SetNowFunc overrides the clock. Intended for tests.
func (r *Registry) SetNowFunc(fn func() time.Time) { r.nowFn = fn }

func (r *Registry) persist() {
	_ = kv.SetVersioned(r.store, storageKey, r.cards, schemaVersion)
}

// newCode returns a fresh 8-character code in the XXXX-XXXX shape.
func newCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate link code: %w", err)
	}
	out := make([]byte, 0, 9)
	for i, b := range buf {
		if i == 4 {
			out = append(out, '-')
		}
		out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
	}
	return string(out), nil
}

// Generate issues a new active card, refusing once MaxActive cards are
// already active (expired ones do not count against the cap).
func (r *Registry) Generate(note string) (types.LinkCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFn().UTC()
	if r.activeCountLocked(now) >= MaxActive {
		return types.LinkCard{}, types.ErrActiveCardLimit
	}

	code, err := newCode()
	if err != nil {
		return types.LinkCard{}, err
	}
	card := types.LinkCard{
		ID:        "lc_" + uuid.NewString(),
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(DefaultTTL),
		Status:    types.CardActive,
		Note:      note,
	}
	r.cards = append([]types.LinkCard{card}, r.cards...)
	r.persist()
	return card, nil
}

// ActiveCount reports how many cards are currently redeemable.
func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeCountLocked(r.nowFn().UTC())
}

func (r *Registry) activeCountLocked(now time.Time) int {
	n := 0
	for _, c := range r.cards {
		if c.EffectiveStatus(now) == types.CardActive {
			n++
		}
	}
	return n
}

// Cards returns the account's cards, newest first, with expiry derived at
// read time. The stored status is left untouched.
func (r *Registry) Cards() []types.LinkCard {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFn().UTC()
	out := make([]types.LinkCard, len(r.cards))
	for i, c := range r.cards {
		c.Status = c.EffectiveStatus(now)
		out[i] = c
	}
	return out
}

// Revoke marks an active card revoked. Terminal cards (used, revoked,
// lazily expired) are left untouched and reported with their state.
func (r *Registry) Revoke(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFn().UTC()
	for i := range r.cards {
		if r.cards[i].ID != id {
			continue
		}
		switch r.cards[i].EffectiveStatus(now) {
		case types.CardUsed:
			return types.ErrCardAlreadyUsed
		case types.CardRevoked:
			return types.ErrCardRevoked
		case types.CardExpired:
			return types.ErrCardExpired
		}
		r.cards[i].Status = types.CardRevoked
		r.cards[i].RevokedAt = &now
		r.persist()
		return nil
	}
	return types.ErrNotFound
}

// Redeem consumes an active, unexpired card matching the code. Outcomes in
// priority order: malformed input, unknown code, expired (stored or
// derived), already used, revoked, then consume. A consumed card can never
// be redeemed again.
func (r *Registry) Redeem(code string) (types.LinkCard, error) {
	normalized, err := types.NormalizeCode(code)
	if err != nil {
		return types.LinkCard{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFn().UTC()
	for i := range r.cards {
		if r.cards[i].Code != normalized {
			continue
		}
		switch r.cards[i].EffectiveStatus(now) {
		case types.CardExpired:
			return types.LinkCard{}, types.ErrCardExpired
		case types.CardUsed:
			return types.LinkCard{}, types.ErrCardAlreadyUsed
		case types.CardRevoked:
			return types.LinkCard{}, types.ErrCardRevoked
		}
		r.cards[i].Status = types.CardUsed
		r.cards[i].UsedAt = &now
		r.persist()
		return r.cards[i], nil
	}
	return types.LinkCard{}, types.ErrCardInvalid
}
