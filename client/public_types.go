package client

import "github.com/Zephy88r/AnoN-sub000/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	// Requests
	CreatePostRequest     = types.CreatePostRequest
	CreateCommentRequest  = types.CreateCommentRequest
	LinkCardCreateRequest = types.LinkCardCreateRequest

	// Domain entities
	TrustRequest    = types.TrustRequest
	TrustSubmission = types.TrustSubmission
	TrustStatus     = types.TrustStatus
	ChatThread      = types.ChatThread
	ChatTextMessage = types.ChatTextMessage
	LinkCard        = types.LinkCard
	CardStatus      = types.CardStatus
	GeoMode         = types.GeoMode
	GeoPulse        = types.GeoPulse
	GeoPing         = types.GeoPing
	Signal          = types.Signal

	// Preferences
	ThemeMode        = types.ThemeMode
	Notification     = types.Notification
	NotificationType = types.NotificationType

	// Responses
	Post                = types.Post
	Comment             = types.Comment
	MeResponse          = types.MeResponse
	TrustStatusResponse = types.TrustStatusResponse
	RemoteTrustEntry    = types.RemoteTrustEntry
	RemoteLinkCard      = types.RemoteLinkCard
	GeoPingAck          = types.GeoPingAck
	WSTicketResponse    = types.WSTicketResponse

	// Admin console
	AdminLoginRequest = types.AdminLoginRequest
	AdminUser         = types.AdminUser
	AdminStats        = types.AdminStats
	AdminSession      = types.AdminSession
	TrustLink         = types.TrustLink
	AbuseReport       = types.AbuseReport
	AuditLog          = types.AuditLog
)

// Geo mode values re-exported for option construction.
const (
	GeoModeGhost  = types.GeoModeGhost
	GeoModeReveal = types.GeoModeReveal
)

// Theme and notification values re-exported alongside their aliases.
const (
	ThemeSystem = types.ThemeSystem
	ThemeLight  = types.ThemeLight
	ThemeDark   = types.ThemeDark

	NotifMessage = types.NotifMessage
	NotifTrust   = types.NotifTrust
	NotifPost    = types.NotifPost
	NotifSystem  = types.NotifSystem
)

// Errors re-exported in errors.go
