// Package client is the Go SDK for the ghost anonymous social network.
//
// A Client pairs a remote REST/WebSocket boundary with a local, versioned
// key-value state layer: trust ledger, chat thread directory, link-card
// registry and the geo-pulse simulator all live on the local store and keep
// working offline.
package client

import (
	"context"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Zephy88r/AnoN-sub000/internal/api"
	"github.com/Zephy88r/AnoN-sub000/internal/config"
	"github.com/Zephy88r/AnoN-sub000/internal/geo"
	"github.com/Zephy88r/AnoN-sub000/internal/kv"
	"github.com/Zephy88r/AnoN-sub000/internal/linkcards"
	"github.com/Zephy88r/AnoN-sub000/internal/localstate"
	"github.com/Zephy88r/AnoN-sub000/internal/logger"
	"github.com/Zephy88r/AnoN-sub000/internal/prefs"
	"github.com/Zephy88r/AnoN-sub000/internal/session"
	"github.com/Zephy88r/AnoN-sub000/internal/threads"
	"github.com/Zephy88r/AnoN-sub000/internal/trust"
	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

type Client struct {
	baseURL string
	wsURL   string
	region  string
	mode    types.GeoMode

	http    *http.Client
	store   *kv.Store
	session *session.Manager
	trust   *trust.Ledger
	threads *threads.Directory
	cards   *linkcards.Registry
	geo     *geo.Simulator
	prefs   *prefs.Store
	log     zerolog.Logger

	// construction-time knobs, consumed in New
	backend kv.Backend
	dataDir string

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client for the given REST base URL. Local state is opened
// at the default dotdir path unless WithStoreBackend or WithDataDir override
// it. Additional options can be provided via functional arguments.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		panic("baseURL cannot be empty")
	}

	c := &Client{
		baseURL: baseURL,
		wsURL:   deriveWSBase(baseURL),
		region:  "default",
		mode:    types.GeoModeGhost,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     logger.New("ghost-client"),
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.backend == nil {
		path := c.dataDir
		if path == "" {
			p, err := localstate.DBPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		be, err := kv.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		c.backend = be
	}

	c.store = kv.NewStore(c.backend, c.log)
	c.session = session.NewManager(c.store)
	c.trust = trust.NewLedger(c.store)
	c.threads = threads.NewDirectory(c.store)
	c.cards = linkcards.NewRegistry(c.store)
	c.geo = geo.NewSimulator(c.store)
	c.prefs = prefs.NewStore(c.store)

	// Wrap the transport so every request carries the session bearer token.
	c.wrapTransportWithSessionToken()

	return c, nil
}

// NewFromConfig constructs a Client from GHOST_-prefixed environment config.
func NewFromConfig(cfg *config.Config) (*Client, error) {
	opts := []Option{
		WithHTTPTimeout(cfg.HTTPTimeout),
		WithRegion(cfg.Region),
		WithGeoMode(types.GeoMode(cfg.GeoMode)),
	}
	if cfg.WSBaseURL != "" {
		opts = append(opts, WithWSBaseURL(cfg.WSBaseURL))
	}
	if cfg.DataDir != "" {
		opts = append(opts, WithDataDir(filepath.Join(cfg.DataDir, "ghost.db")))
	}
	if cfg.Debug {
		opts = append(opts, WithDebugLogging(true))
	}
	return New(cfg.APIBaseURL, opts...)
}

// wrapTransportWithSessionToken wraps the HTTP client's transport so requests
// carry the current session token. The token is read per request because
// bootstrap and refresh rotate it after construction.
func (c *Client) wrapTransportWithSessionToken() {
	baseTransport := c.http.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	c.http.Transport = &sessionTokenTransport{
		base:    baseTransport,
		session: c.session,
	}
}

// sessionTokenTransport adds the session bearer token to outgoing requests.
// Requests that already set Authorization (the admin console) pass through.
type sessionTokenTransport struct {
	base    http.RoundTripper
	session *session.Manager
}

func (t *sessionTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") != "" {
		return t.base.RoundTrip(req)
	}
	token := t.session.Token()
	if token == "" {
		return t.base.RoundTrip(req)
	}
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(cloned)
}

// deriveWSBase swaps the scheme of an HTTP root for its WebSocket twin.
func deriveWSBase(apiBase string) string {
	switch {
	case len(apiBase) > 8 && apiBase[:8] == "https://":
		return "wss://" + apiBase[8:]
	case len(apiBase) > 7 && apiBase[:7] == "http://":
		return "ws://" + apiBase[7:]
	}
	return apiBase
}

// Close releases the local store. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	return c.store.Close()
}

// --------------------------------------------------------------------
// Feed operations - delegated to internal/api
// --------------------------------------------------------------------

// CreatePost publishes a post to the anonymous feed.
func (c *Client) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	return api.CreatePost(ctx, c.http, c.baseURL, req)
}

// Feed returns the public feed, newest first.
func (c *Client) Feed(ctx context.Context) ([]Post, error) {
	return api.FetchFeed(ctx, c.http, c.baseURL)
}

// CreateComment adds a comment, or a reply when req.ParentID is set.
func (c *Client) CreateComment(ctx context.Context, postID string, req CreateCommentRequest) (*Comment, error) {
	return api.CreateComment(ctx, c.http, c.baseURL, postID, req)
}

// Comments returns a post's comments in thread order.
func (c *Client) Comments(ctx context.Context, postID string) ([]Comment, error) {
	return api.ListComments(ctx, c.http, c.baseURL, postID)
}

// React toggles a reaction on a post.
func (c *Client) React(ctx context.Context, postID, emoji string) error {
	return api.React(ctx, c.http, c.baseURL, postID, types.ReactRequest{Emoji: emoji})
}

// SearchPosts runs a ranked full-text query over posts.
func (c *Client) SearchPosts(ctx context.Context, query string) ([]Post, error) {
	return api.Search(ctx, c.http, c.baseURL, query)
}

// --------------------------------------------------------------------
// Remote trust and link-card operations - delegated to internal/api
// --------------------------------------------------------------------

// PushTrustRequest opens a handshake on the backend by redeeming a code.
func (c *Client) PushTrustRequest(ctx context.Context, code string) error {
	return api.RequestTrust(ctx, c.http, c.baseURL, types.TrustHandshakeRequest{Code: code})
}

// RespondTrustRemote accepts or declines an incoming handshake on the backend.
func (c *Client) RespondTrustRemote(ctx context.Context, requestID, decision string) error {
	return api.RespondTrust(ctx, c.http, c.baseURL, types.TrustRespondRequest{RequestID: requestID, Decision: decision})
}

// RemoteTrustStatus lists handshakes in both directions.
func (c *Client) RemoteTrustStatus(ctx context.Context) (*TrustStatusResponse, error) {
	return api.TrustStatus(ctx, c.http, c.baseURL)
}

// CreateRemoteCard issues a new one-time code on the backend.
func (c *Client) CreateRemoteCard(ctx context.Context, req LinkCardCreateRequest) (*RemoteLinkCard, error) {
	return api.CreateLinkCard(ctx, c.http, c.baseURL, req)
}

// RemoteCards lists the account's issued codes.
func (c *Client) RemoteCards(ctx context.Context) ([]RemoteLinkCard, error) {
	return api.MyLinkCards(ctx, c.http, c.baseURL)
}

// --------------------------------------------------------------------
// Remote geo operations - delegated to internal/api
// --------------------------------------------------------------------

// PushGeoPing applies the privacy transform to the raw position and reports
// the coarse result to the backend. Raw coordinates never leave the device.
func (c *Client) PushGeoPing(ctx context.Context, lat, lng float64) (*GeoPingAck, error) {
	tlat, tlng := c.geo.Transform(lat, lng, c.mode)
	return api.SendGeoPing(ctx, c.http, c.baseURL, types.GeoPingRequest{Lat: tlat, Lng: tlng})
}

// Nearby lists fresh backend pings within km of the given position.
func (c *Client) Nearby(ctx context.Context, lat, lng, km float64) ([]GeoPingAck, error) {
	return api.NearbyPings(ctx, c.http, c.baseURL, lat, lng, km)
}
