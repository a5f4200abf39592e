package types

// ------------------------------
// Wire requests (JSON over HTTPS)
// ------------------------------

// DeviceChallengeRequest asks the backend for a one-time nonce.
type DeviceChallengeRequest struct {
	DevicePublicID string `json:"device_public_id"`
}

// BootstrapRequest proves device possession and opens a session.
type BootstrapRequest struct {
	DevicePublicID   string `json:"device_public_id"`
	Nonce            string `json:"nonce"`
	TS               int64  `json:"ts"`
	Proof            string `json:"proof"`
	Region           string `json:"region"`
	DeviceSecretHash string `json:"device_secret_hash"`
}

// CreatePostRequest publishes a post to the anonymous feed.
type CreatePostRequest struct {
	Text string `json:"text"`
}

// CreateCommentRequest adds a comment (or a reply when ParentID is set).
type CreateCommentRequest struct {
	Text     string `json:"text"`
	ParentID string `json:"parent_id,omitempty"`
}

// ReactRequest toggles a reaction on a post.
type ReactRequest struct {
	Emoji string `json:"emoji"`
}

// TrustHandshakeRequest opens a handshake by redeeming a link-card code.
type TrustHandshakeRequest struct {
	Code string `json:"code"`
}

// TrustRespondRequest accepts or declines an incoming handshake.
type TrustRespondRequest struct {
	RequestID string `json:"request_id"`
	Decision  string `json:"decision"` // "accepted" | "declined"
}

// LinkCardCreateRequest issues a new one-time code.
type LinkCardCreateRequest struct {
	TTLMinutes int    `json:"ttl_minutes,omitempty"`
	Note       string `json:"note,omitempty"`
}

// GeoPingRequest reports a privacy-transformed position.
type GeoPingRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// WSTicketRequest asks for a short-lived chat upgrade ticket.
type WSTicketRequest struct {
	Peer string `json:"peer"`
}

// AdminLoginRequest authenticates the moderation console.
type AdminLoginRequest struct {
	Password string `json:"password"`
}
