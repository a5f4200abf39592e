package types

import "time"

// ------------------------------
// Local domain entities
// ------------------------------

// TrustStatus is the lifecycle state of a trust request.
type TrustStatus string

const (
	TrustNone     TrustStatus = "none"
	TrustPending  TrustStatus = "pending"
	TrustAccepted TrustStatus = "accepted"
	TrustDeclined TrustStatus = "declined"
)

// TrustRequest is one handshake attempt from a peer. At most one request is
// retained per peer key, whatever its status.
type TrustRequest struct {
	ID          string      `json:"id"`
	FromLabel   string      `json:"from_label"`
	FromUserKey string      `json:"from_user_key"`
	PostID      string      `json:"post_id,omitempty"`
	Note        string      `json:"note,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	Status      TrustStatus `json:"status"`
}

// TrustSubmission is the input to the local ledger's submit operation.
type TrustSubmission struct {
	FromLabel   string `json:"from_label"`
	FromUserKey string `json:"from_user_key"`
	PostID      string `json:"post_id,omitempty"`
	Note        string `json:"note,omitempty"`
}

// ChatThread is a private conversation slot with one peer. Its id is derived
// deterministically from the participant pair or from a link-card code.
type ChatThread struct {
	ID            string     `json:"id"`
	PeerAnonID    string     `json:"peer_anon_id"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	Label         string     `json:"label,omitempty"`
	Code          string     `json:"code,omitempty"`
}

// ChatTextMessage is one entry in a thread's append-only message log.
type ChatTextMessage struct {
	ID        string    `json:"id"`
	FromMe    bool      `json:"from_me"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CardStatus is the stored lifecycle state of a link card. An active card
// past its expiry reads as expired without a stored transition; see
// LinkCard.EffectiveStatus.
type CardStatus string

const (
	CardActive  CardStatus = "active"
	CardUsed    CardStatus = "used"
	CardRevoked CardStatus = "revoked"
	CardExpired CardStatus = "expired"
)

// LinkCard is a one-time, time-boxed code bridging two parties into a chat
// thread without an explicit trust handshake.
type LinkCard struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	Status    CardStatus `json:"status"`
	Note      string     `json:"note,omitempty"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// EffectiveStatus derives expiry at read time: a nominally active card whose
// expiry has passed reports as expired even though the stored field still
// says active.
func (c LinkCard) EffectiveStatus(now time.Time) CardStatus {
	if c.Status == CardActive && !now.Before(c.ExpiresAt) {
		return CardExpired
	}
	return c.Status
}

// GeoMode selects how much location precision is given away.
type GeoMode string

const (
	// GeoModeGhost is the privacy-preserving default: ~1.1 km rounding plus
	// large jitter.
	GeoModeGhost GeoMode = "ghost"
	// GeoModeReveal trades some privacy for a finer (~110 m) position.
	GeoModeReveal GeoMode = "reveal"
)

// GeoPulse is one reported, privacy-transformed location sample. One row per
// device per region, latest wins.
type GeoPulse struct {
	AnonKey   string    `json:"anon_key"`
	Region    string    `json:"region"`
	Mode      GeoMode   `json:"mode"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	AccuracyM float64   `json:"accuracy_m"`
	TS        time.Time `json:"ts"`
}

// Signal is a coarse freshness bucket for a nearby ping.
type Signal string

const (
	SignalLow  Signal = "low"
	SignalMed  Signal = "med"
	SignalHigh Signal = "high"
)

// GeoPing is the UI-facing shape of a nearby pulse. X and Y are stable
// pseudorandom display coordinates in 0..100; DistanceM is illustrative, not
// real geometry.
type GeoPing struct {
	UserKey   string    `json:"user_key"`
	Label     string    `json:"label"`
	DistanceM int       `json:"distance_m"`
	LastSeen  time.Time `json:"last_seen"`
	Signal    Signal    `json:"signal"`
	Hint      string    `json:"hint"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
}

// ThemeMode is the display theme preference.
type ThemeMode string

const (
	ThemeSystem ThemeMode = "system"
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
)

// NotificationType buckets notifications for the bell panel.
type NotificationType string

const (
	NotifMessage NotificationType = "message"
	NotifTrust   NotificationType = "trust"
	NotifPost    NotificationType = "post"
	NotifSystem  NotificationType = "system"
)

// Notification is one entry in the local notification list.
type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
	IsRead    bool             `json:"is_read"`
	Type      NotificationType `json:"type,omitempty"`
}
