package client

import (
	"math"

	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

// Local state operations. Everything in this file works against the on-disk
// kv store and never touches the network, so it stays usable offline.

// localKey identifies this device in thread ids and geo pulses. The session
// anon id wins once a bootstrap has run; before that the durable device key
// stands in so local state survives the first bootstrap.
func (c *Client) localKey() string {
	if id := c.session.AnonID(); id != "" {
		return id
	}
	return c.geo.DeviceKey()
}

// --------------------------------------------------------------------
// Trust ledger
// --------------------------------------------------------------------

// SubmitTrustRequest records an incoming handshake. Repeat submissions from
// the same peer return the existing request; created reports whether a new
// one was appended.
func (c *Client) SubmitTrustRequest(sub TrustSubmission) (TrustRequest, bool) {
	return c.trust.Submit(sub)
}

// AcceptTrust marks a pending request accepted.
func (c *Client) AcceptTrust(requestID string) error { return c.trust.Accept(requestID) }

// DeclineTrust marks a pending request declined.
func (c *Client) DeclineTrust(requestID string) error { return c.trust.Decline(requestID) }

// TrustRequests lists all recorded handshakes, newest first.
func (c *Client) TrustRequests() []TrustRequest { return c.trust.Requests() }

// IsTrusted reports whether the peer has an accepted handshake.
func (c *Client) IsTrusted(userKey string) bool { return c.trust.IsTrusted(userKey) }

// TrustStatusFor returns the handshake state for one peer.
func (c *Client) TrustStatusFor(userKey string) TrustStatus { return c.trust.StatusFor(userKey) }

// --------------------------------------------------------------------
// Chat threads
// --------------------------------------------------------------------

// OpenThread returns the conversation slot for a trusted peer, creating it
// on first use. Untrusted peers get ErrNotTrusted.
func (c *Client) OpenThread(peerKey string) (ChatThread, error) {
	if !c.trust.IsTrusted(peerKey) {
		return ChatThread{}, types.ErrNotTrusted
	}
	return c.threads.EnsureThread(c.localKey(), peerKey), nil
}

// Threads lists conversation slots ordered by last activity.
func (c *Client) Threads() []ChatThread { return c.threads.Threads() }

// Thread returns one conversation slot by id.
func (c *Client) Thread(threadID string) (ChatThread, bool) { return c.threads.Get(threadID) }

// ThreadMessages returns a thread's messages in append order.
func (c *Client) ThreadMessages(threadID string) []ChatTextMessage {
	return c.threads.Messages(threadID)
}

// SendThreadText appends an outgoing message to a thread. Blank text is
// dropped; ok reports whether a message was stored.
func (c *Client) SendThreadText(threadID, text string) (ChatTextMessage, bool) {
	msg, ok := c.threads.SendText(threadID, text)
	if ok {
		chatMessagesTotal.WithLabelValues("out").Inc()
	}
	return msg, ok
}

// --------------------------------------------------------------------
// Link cards
// --------------------------------------------------------------------

// GenerateCard issues a new one-time link card, refusing past the active cap.
func (c *Client) GenerateCard(note string) (LinkCard, error) { return c.cards.Generate(note) }

// Cards lists issued cards with expiry derived at read time.
func (c *Client) Cards() []LinkCard { return c.cards.Cards() }

// RevokeCard revokes an active card.
func (c *Client) RevokeCard(id string) error { return c.cards.Revoke(id) }

// RedeemCard consumes a card by code and opens the conversation slot the
// code names. The card errors pass through untouched so callers can present
// exact failure reasons.
func (c *Client) RedeemCard(code string) (ChatThread, error) {
	card, err := c.cards.Redeem(code)
	if err != nil {
		return ChatThread{}, err
	}
	return c.threads.EnsureThreadForCode(card.Code, ""), nil
}

// --------------------------------------------------------------------
// Geo-pulse simulation
// --------------------------------------------------------------------

// Pulse records this device's position into the local region simulation.
// The raw coordinate is rounded and jittered before storage; accuracyM is
// the position fix's reported accuracy in metres (0 when unknown). Accepted
// is false when the per-device throttle dropped the pulse.
func (c *Client) Pulse(lat, lon, accuracyM float64) bool {
	tlat, tlon := c.geo.Transform(lat, lon, c.mode)
	if accuracyM < 0 {
		accuracyM = 0
	}
	accepted := c.geo.Pulse(types.GeoPulse{
		AnonKey:   c.localKey(),
		Region:    c.region,
		Mode:      c.mode,
		Lat:       tlat,
		Lon:       tlon,
		AccuracyM: math.Round(accuracyM),
	})
	if accepted {
		geoPulsesTotal.WithLabelValues("accepted").Inc()
	} else {
		geoPulsesTotal.WithLabelValues("throttled").Inc()
	}
	return accepted
}

// LocalPings renders the region's fresh pulses as UI-facing pings.
func (c *Client) LocalPings() []GeoPing { return c.geo.FetchPings(c.region) }

// DeviceKey returns the durable anonymous device key.
func (c *Client) DeviceKey() string { return c.geo.DeviceKey() }

// --------------------------------------------------------------------
// Preferences and notifications
// --------------------------------------------------------------------

// Theme returns the stored display theme preference.
func (c *Client) Theme() ThemeMode { return c.prefs.Theme() }

// SetTheme persists the display theme preference.
func (c *Client) SetTheme(mode ThemeMode) error { return c.prefs.SetTheme(mode) }

// AddNotification prepends an entry to the local notification list.
func (c *Client) AddNotification(title, message string, typ NotificationType) Notification {
	return c.prefs.Add(title, message, typ)
}

// Notifications lists local notifications, newest first.
func (c *Client) Notifications() []Notification { return c.prefs.Notifications() }

// MarkNotificationRead flags one notification as read.
func (c *Client) MarkNotificationRead(id string) { c.prefs.MarkRead(id) }

// MarkAllNotificationsRead flags every notification as read.
func (c *Client) MarkAllNotificationsRead() { c.prefs.MarkAllRead() }

// RemoveNotification drops one notification from the list.
func (c *Client) RemoveNotification(id string) { c.prefs.Remove(id) }

// HasUnreadNotifications reports whether any notification is unread.
func (c *Client) HasUnreadNotifications() bool { return c.prefs.HasUnread() }
