package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zephy88r/AnoN-sub000/internal/kv"
)

// Covers the handshake-to-chat walk: a trust request arrives, chat is
// refused while it is pending, and accepting it opens the thread.
func TestTrustGatesThreadCreation(t *testing.T) {
	c := newTestClient(t, "http://example.com")

	req, created := c.SubmitTrustRequest(TrustSubmission{
		FromLabel:   "User #123456",
		FromUserKey: "user_abc12345",
		Note:        "saw your post",
	})
	require.True(t, created)
	assert.Equal(t, TrustStatus("pending"), req.Status)

	_, err := c.OpenThread("user_abc12345")
	assert.ErrorIs(t, err, ErrNotTrusted)

	require.NoError(t, c.AcceptTrust(req.ID))
	th, err := c.OpenThread("user_abc12345")
	require.NoError(t, err)
	assert.NotEmpty(t, th.ID)

	// Same peer maps to the same thread.
	again, err := c.OpenThread("user_abc12345")
	require.NoError(t, err)
	assert.Equal(t, th.ID, again.ID)
}

func TestSubmitTrustRequest_DedupsByPeer(t *testing.T) {
	c := newTestClient(t, "http://example.com")

	first, created := c.SubmitTrustRequest(TrustSubmission{FromLabel: "A", FromUserKey: "user_x"})
	require.True(t, created)

	second, created := c.SubmitTrustRequest(TrustSubmission{FromLabel: "A", FromUserKey: "user_x"})
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, c.TrustRequests(), 1)
}

func TestThreadMessaging(t *testing.T) {
	c := newTestClient(t, "http://example.com")

	req, _ := c.SubmitTrustRequest(TrustSubmission{FromLabel: "B", FromUserKey: "user_b"})
	require.NoError(t, c.AcceptTrust(req.ID))
	th, err := c.OpenThread("user_b")
	require.NoError(t, err)

	msg, ok := c.SendThreadText(th.ID, "  hello  ")
	require.True(t, ok)
	assert.Equal(t, "hello", msg.Text)
	assert.True(t, msg.FromMe)

	_, ok = c.SendThreadText(th.ID, "   ")
	assert.False(t, ok, "blank text must be dropped")

	msgs := c.ThreadMessages(th.ID)
	require.Len(t, msgs, 1)
}

func TestRedeemCardOpensCodeThread(t *testing.T) {
	c := newTestClient(t, "http://example.com")

	card, err := c.GenerateCard("for a friend")
	require.NoError(t, err)

	th, err := c.RedeemCard(card.Code)
	require.NoError(t, err)
	assert.Contains(t, th.ID, "lc_")

	// A consumed code cannot be redeemed twice.
	_, err = c.RedeemCard(card.Code)
	assert.ErrorIs(t, err, ErrCardAlreadyUsed)
}

func TestRedeemCard_ErrorsPassThrough(t *testing.T) {
	c := newTestClient(t, "http://example.com")

	_, err := c.RedeemCard("nope")
	assert.ErrorIs(t, err, ErrCodeMalformed)

	_, err = c.RedeemCard("AAAA-0000")
	assert.ErrorIs(t, err, ErrCardInvalid)
}

func TestGenerateCard_EnforcesActiveCap(t *testing.T) {
	c := newTestClient(t, "http://example.com")

	for i := 0; i < 3; i++ {
		_, err := c.GenerateCard("")
		require.NoError(t, err)
	}
	_, err := c.GenerateCard("")
	assert.ErrorIs(t, err, ErrActiveCardLimit)

	// Revoking one frees a slot.
	cards := c.Cards()
	require.NoError(t, c.RevokeCard(cards[0].ID))
	_, err = c.GenerateCard("")
	assert.NoError(t, err)
}

func TestPulseAndLocalPings(t *testing.T) {
	c := newTestClient(t, "http://example.com")

	assert.True(t, c.Pulse(52.520008, 13.404954, 0))
	assert.False(t, c.Pulse(52.520008, 13.404954, 0), "second pulse inside the throttle window")

	pings := c.LocalPings()
	require.Len(t, pings, 1)
	assert.Equal(t, Signal("high"), pings[0].Signal)
	assert.InDelta(t, 50, pings[0].X, 40)
	assert.InDelta(t, 50, pings[0].Y, 38)
}

func TestPulseCarriesRoundedAccuracy(t *testing.T) {
	c := newTestClient(t, "http://example.com")

	require.True(t, c.Pulse(52.520008, 13.404954, 23.7))

	stored := kv.Get(c.store, "geo_pulses", []GeoPulse{}, &kv.Options[[]GeoPulse]{Version: 1})
	require.Len(t, stored, 1)
	assert.Equal(t, float64(24), stored[0].AccuracyM)
}

func TestPulseClampsNegativeAccuracy(t *testing.T) {
	c := newTestClient(t, "http://example.com")

	require.True(t, c.Pulse(52.520008, 13.404954, -5))

	stored := kv.Get(c.store, "geo_pulses", []GeoPulse{}, &kv.Options[[]GeoPulse]{Version: 1})
	require.Len(t, stored, 1)
	assert.Zero(t, stored[0].AccuracyM)
}

func TestThemeAndNotificationDelegation(t *testing.T) {
	c := newTestClient(t, "http://example.com")

	assert.Equal(t, ThemeSystem, c.Theme())
	require.NoError(t, c.SetTheme(ThemeDark))
	assert.Equal(t, ThemeDark, c.Theme())

	n := c.AddNotification("Trust request", "User #123456 wants to connect", NotifTrust)
	assert.True(t, c.HasUnreadNotifications())

	c.MarkNotificationRead(n.ID)
	assert.False(t, c.HasUnreadNotifications())

	c.RemoveNotification(n.ID)
	assert.Empty(t, c.Notifications())
}
