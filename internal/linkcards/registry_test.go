package linkcards

import (
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zephy88r/AnoN-sub000/internal/kv"
	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

func newTestRegistry() (*Registry, *kv.Store) {
	store := kv.NewStore(kv.NewMemoryBackend(), zerolog.Nop())
	return NewRegistry(store), store
}

var codeShape = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}$`)

func TestGenerateProducesCanonicalCodes(t *testing.T) {
	r, _ := newTestRegistry()

	card, err := r.Generate("for bob")
	require.NoError(t, err)
	assert.Regexp(t, codeShape, card.Code)
	assert.Equal(t, types.CardActive, card.Status)
	assert.Equal(t, "for bob", card.Note)
	assert.Equal(t, DefaultTTL, card.ExpiresAt.Sub(card.CreatedAt))
}

func TestActiveCardCap(t *testing.T) {
	r, _ := newTestRegistry()

	for i := 0; i < MaxActive; i++ {
		_, err := r.Generate("")
		require.NoError(t, err)
	}
	assert.Equal(t, MaxActive, r.ActiveCount())

	_, err := r.Generate("")
	assert.ErrorIs(t, err, types.ErrActiveCardLimit)
	assert.Equal(t, MaxActive, r.ActiveCount())
}

func TestCapFreesUpAfterRevoke(t *testing.T) {
	r, _ := newTestRegistry()

	var first types.LinkCard
	for i := 0; i < MaxActive; i++ {
		c, err := r.Generate("")
		require.NoError(t, err)
		if i == 0 {
			first = c
		}
	}
	require.NoError(t, r.Revoke(first.ID))

	_, err := r.Generate("")
	assert.NoError(t, err)
}

func TestRedeemConsumesOnce(t *testing.T) {
	r, _ := newTestRegistry()
	card, err := r.Generate("")
	require.NoError(t, err)

	got, err := r.Redeem(card.Code)
	require.NoError(t, err)
	assert.Equal(t, types.CardUsed, got.Status)
	require.NotNil(t, got.UsedAt)

	_, err = r.Redeem(card.Code)
	assert.ErrorIs(t, err, types.ErrCardAlreadyUsed)
}

func TestRedeemNormalizesInput(t *testing.T) {
	r, _ := newTestRegistry()
	card, err := r.Generate("")
	require.NoError(t, err)

	messy := " " + card.Code[:4] + " _ " + card.Code[5:] + " "
	_, err = r.Redeem(messy)
	assert.NoError(t, err)
}

func TestRedeemMalformedCode(t *testing.T) {
	r, _ := newTestRegistry()
	_, err := r.Redeem("nope")
	assert.ErrorIs(t, err, types.ErrCodeMalformed)
}

func TestRedeemUnknownCode(t *testing.T) {
	r, _ := newTestRegistry()
	_, err := r.Redeem("AAAA-BBBB")
	assert.ErrorIs(t, err, types.ErrCardInvalid)
}

func TestRevokeThenRedeemStaysRevoked(t *testing.T) {
	r, _ := newTestRegistry()
	card, err := r.Generate("")
	require.NoError(t, err)

	require.NoError(t, r.Revoke(card.ID))

	_, err = r.Redeem(card.Code)
	assert.ErrorIs(t, err, types.ErrCardRevoked)

	// Redemption and revocation are mutually exclusive terminal outcomes.
	for _, c := range r.Cards() {
		if c.ID == card.ID {
			assert.Equal(t, types.CardRevoked, c.Status)
			assert.Nil(t, c.UsedAt)
		}
	}
}

func TestRedeemDerivesExpiryFromClock(t *testing.T) {
	r, _ := newTestRegistry()

	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	now := base
	r.SetNowFunc(func() time.Time { return now })

	card, err := r.Generate("")
	require.NoError(t, err)

	// Past expiry the stored status still says active, but redeem must
	// report expired without any prior status write.
	now = base.Add(DefaultTTL + time.Minute)
	_, err = r.Redeem(card.Code)
	assert.ErrorIs(t, err, types.ErrCardExpired)

	assert.Equal(t, 0, r.ActiveCount())
	assert.Equal(t, types.CardExpired, r.Cards()[0].Status)
}

func TestRevokeExpiredCardIsRefused(t *testing.T) {
	r, _ := newTestRegistry()

	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	now := base
	r.SetNowFunc(func() time.Time { return now })

	card, err := r.Generate("")
	require.NoError(t, err)

	now = base.Add(DefaultTTL + time.Minute)
	assert.ErrorIs(t, r.Revoke(card.ID), types.ErrCardExpired)
}

func TestRevokeUnknownID(t *testing.T) {
	r, _ := newTestRegistry()
	assert.ErrorIs(t, r.Revoke("lc_missing"), types.ErrNotFound)
}

func TestRegistrySurvivesReload(t *testing.T) {
	r, store := newTestRegistry()
	card, err := r.Generate("sticky")
	require.NoError(t, err)

	reloaded := NewRegistry(store)
	cards := reloaded.Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, card.Code, cards[0].Code)
	assert.Equal(t, "sticky", cards[0].Note)
}
