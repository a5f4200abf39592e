package types

import "time"

// ------------------------------
// Wire responses
// ------------------------------

// DeviceChallengeResponse carries the nonce to sign.
type DeviceChallengeResponse struct {
	Nonce        string `json:"nonce"`
	ExpiresInSec int    `json:"expires_in_sec"`
}

// BootstrapResponse opens a session: bearer token plus the anonymous identity.
type BootstrapResponse struct {
	Token     string    `json:"token"`
	AnonID    string    `json:"anon_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MeResponse describes the current session.
type MeResponse struct {
	AnonID    string    `json:"anon_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Post is one feed entry.
type Post struct {
	ID        string    `json:"id"`
	AnonID    string    `json:"anon_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedResponse wraps the feed listing.
type FeedResponse struct {
	Posts []Post `json:"posts"`
}

// Comment is one comment or reply on a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	ParentID  string    `json:"parent_id,omitempty"`
	AnonID    string    `json:"anon_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentsResponse wraps a post's comment listing.
type CommentsResponse struct {
	Comments []Comment `json:"comments"`
}

// SearchResponse carries ranked full-text search hits.
type SearchResponse struct {
	Posts []Post `json:"posts"`
}

// RemoteTrustEntry is the backend's view of one handshake.
type RemoteTrustEntry struct {
	RequestID string    `json:"request_id"`
	FromAnon  string    `json:"from_anon,omitempty"`
	ToAnon    string    `json:"to_anon,omitempty"`
	Code      string    `json:"code,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// TrustStatusResponse lists handshakes in both directions.
type TrustStatusResponse struct {
	Incoming []RemoteTrustEntry `json:"incoming"`
	Outgoing []RemoteTrustEntry `json:"outgoing"`
}

// RemoteLinkCard is the backend's view of an issued code.
type RemoteLinkCard struct {
	Code      string    `json:"code"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GeoPingAck echoes the accepted (coarse) position.
type GeoPingAck struct {
	AnonID string    `json:"anon_id"`
	Lat    float64   `json:"lat"`
	Lng    float64   `json:"lng"`
	TS     time.Time `json:"ts"`
}

// GeoNearbyResponse lists fresh pings around the caller.
type GeoNearbyResponse struct {
	Pings []GeoPingAck `json:"pings"`
}

// WSTicketResponse carries the short-lived chat upgrade ticket.
type WSTicketResponse struct {
	Ticket    string `json:"ticket"`
	ExpiresIn int    `json:"expires_in"`
}

// ------------------------------
// Admin console
// ------------------------------

// AdminLoginResponse carries the moderation bearer token.
type AdminLoginResponse struct {
	Token string `json:"token"`
}

// AdminUser summarizes one anonymous account.
type AdminUser struct {
	AnonID    string    `json:"anon_id"`
	CreatedAt time.Time `json:"created_at"`
	PostCount int       `json:"post_count"`
}

// AdminStats is the dashboard headline block.
type AdminStats struct {
	TotalPosts     int     `json:"total_posts"`
	TotalUsers     int     `json:"total_users"`
	TotalSessions  int     `json:"total_sessions"`
	AvgPostsPerDay float64 `json:"avg_posts_per_day"`
	TopPosters     []struct {
		AnonID    string `json:"anon_id"`
		PostCount int    `json:"post_count"`
	} `json:"top_posters"`
}

// AdminSession is one live session row.
type AdminSession struct {
	AnonID    string    `json:"anon_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TrustLink is one edge in the trust graph.
type TrustLink struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// AbuseReport flags a posting-rate outlier.
type AbuseReport struct {
	AnonID     string    `json:"anon_id"`
	PostCount  int       `json:"post_count"`
	LastPostAt time.Time `json:"last_post_at"`
	RateStatus string    `json:"rate_status"`
}

// AuditLog is one moderation audit row.
type AuditLog struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	AnonID    string    `json:"anon_id"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}
