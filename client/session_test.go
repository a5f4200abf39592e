package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

func testExpiry() time.Time {
	return time.Now().Add(time.Hour).UTC().Truncate(time.Millisecond)
}

// mockBackend is an httptest server that speaks the session endpoints and
// records what it saw.
type mockBackend struct {
	srv *httptest.Server

	bootstraps  int
	refreshes   int
	meCalls     int
	lastReq     types.BootstrapRequest
	lastAuth    string
	rejectMe    bool
	rejectToken bool
}

func newMockBackend(t *testing.T) *mockBackend {
	t.Helper()
	mb := &mockBackend{}
	mb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mb.lastAuth = r.Header.Get("Authorization")
		switch r.Method + " " + r.URL.Path {
		case "POST /device/challenge":
			_ = json.NewEncoder(w).Encode(types.DeviceChallengeResponse{Nonce: "nonce-1", ExpiresInSec: 60})
		case "POST /session/bootstrap":
			mb.bootstraps++
			_ = json.NewDecoder(r.Body).Decode(&mb.lastReq)
			_ = json.NewEncoder(w).Encode(types.BootstrapResponse{
				Token:     "tok-1",
				AnonID:    "anon_7",
				Username:  "QuietOwl",
				ExpiresAt: testExpiry(),
			})
		case "GET /session/me":
			mb.meCalls++
			if mb.rejectMe {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(types.MeResponse{AnonID: "anon_7", Username: "QuietOwl", ExpiresAt: testExpiry()})
		case "POST /session/refresh":
			mb.refreshes++
			if mb.rejectToken {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(types.BootstrapResponse{
				Token:     "tok-2",
				AnonID:    "anon_7",
				Username:  "QuietOwl",
				ExpiresAt: testExpiry(),
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(mb.srv.Close)
	return mb
}

func TestBootstrapSession(t *testing.T) {
	mb := newMockBackend(t)
	c := newTestClient(t, mb.srv.URL)

	require.NoError(t, c.BootstrapSession(context.Background()))

	assert.Equal(t, 1, mb.bootstraps)
	assert.Equal(t, "anon_7", c.AnonID())
	assert.Equal(t, "QuietOwl", c.Username())
	assert.True(t, c.SessionReady())

	// Proof is bound to the challenge and to this device's identity.
	assert.Equal(t, "nonce-1", mb.lastReq.Nonce)
	assert.NotEmpty(t, mb.lastReq.Proof)
	assert.NotEmpty(t, mb.lastReq.DeviceSecretHash)
	assert.Equal(t, "default", mb.lastReq.Region)

	// Subsequent calls carry the bearer token.
	_, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", mb.lastAuth)
}

func TestBootstrapSession_ReusesDeviceKeys(t *testing.T) {
	mb := newMockBackend(t)
	c := newTestClient(t, mb.srv.URL)

	require.NoError(t, c.BootstrapSession(context.Background()))
	first := mb.lastReq.DevicePublicID

	c.ClearSession()
	require.NoError(t, c.BootstrapSession(context.Background()))
	assert.Equal(t, first, mb.lastReq.DevicePublicID)
}

func TestInitSession_ResumesStoredSession(t *testing.T) {
	mb := newMockBackend(t)
	c := newTestClient(t, mb.srv.URL)

	require.NoError(t, c.BootstrapSession(context.Background()))
	require.NoError(t, c.InitSession(context.Background()))

	assert.Equal(t, 1, mb.bootstraps, "resume must not re-bootstrap")
	assert.Equal(t, 1, mb.meCalls)
}

func TestInitSession_RebootstrapsWhenRejected(t *testing.T) {
	mb := newMockBackend(t)
	c := newTestClient(t, mb.srv.URL)

	require.NoError(t, c.BootstrapSession(context.Background()))
	mb.rejectMe = true
	require.NoError(t, c.InitSession(context.Background()))

	assert.Equal(t, 2, mb.bootstraps)
}

func TestRefreshSession(t *testing.T) {
	mb := newMockBackend(t)
	c := newTestClient(t, mb.srv.URL)

	require.NoError(t, c.BootstrapSession(context.Background()))
	require.NoError(t, c.RefreshSession(context.Background()))

	assert.Equal(t, 1, mb.refreshes)
	_, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-2", mb.lastAuth)
}

func TestRefreshSession_FallsBackToBootstrap(t *testing.T) {
	mb := newMockBackend(t)
	c := newTestClient(t, mb.srv.URL)

	require.NoError(t, c.BootstrapSession(context.Background()))
	mb.rejectToken = true
	require.NoError(t, c.RefreshSession(context.Background()))

	assert.Equal(t, 2, mb.bootstraps)
	assert.True(t, c.SessionReady())
}

func TestRefreshSession_RequiresSession(t *testing.T) {
	mb := newMockBackend(t)
	c := newTestClient(t, mb.srv.URL)

	err := c.RefreshSession(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}
