package client

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Zephy88r/AnoN-sub000/internal/api"
	"github.com/Zephy88r/AnoN-sub000/internal/session"
	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

// BootstrapSession opens a fresh anonymous session. Device keys are created
// on first use and the challenge proof is computed from the device secret;
// the secret itself never leaves the device.
func (c *Client) BootstrapSession(ctx context.Context) error {
	keys, err := c.session.EnsureDeviceKeys()
	if err != nil {
		return err
	}

	ch, err := api.DeviceChallenge(ctx, c.http, c.baseURL, types.DeviceChallengeRequest{
		DevicePublicID: keys.PublicID,
	})
	if err != nil {
		return err
	}

	ts := time.Now().UnixMilli()
	hash := session.SecretHash(keys)
	proof, err := session.Proof(hash, session.ChallengeMessage(keys.PublicID, ch.Nonce, ts))
	if err != nil {
		return err
	}

	resp, err := api.Bootstrap(ctx, c.http, c.baseURL, types.BootstrapRequest{
		DevicePublicID:   keys.PublicID,
		Nonce:            ch.Nonce,
		TS:               ts,
		Proof:            proof,
		Region:           c.region,
		DeviceSecretHash: hash,
	})
	if err != nil {
		return err
	}

	c.session.SetToken(resp.Token)
	c.session.SetIdentity(resp.AnonID, resp.Username, resp.ExpiresAt)
	sessionsBootstrappedTotal.Inc()

	c.log.Info().Str("anon_id", resp.AnonID).Msg("session bootstrapped")
	return nil
}

// InitSession resumes a stored session when the backend still honors its
// token, and falls back to a full bootstrap otherwise.
func (c *Client) InitSession(ctx context.Context) error {
	if c.session.Ready() && !c.session.Expired() {
		me, err := api.SessionMe(ctx, c.http, c.baseURL)
		if err == nil {
			c.session.SetIdentity(me.AnonID, me.Username, me.ExpiresAt)
			return nil
		}
		c.log.Debug().Err(err).Msg("stored session rejected, re-bootstrapping")
		c.session.Clear(true)
	}
	return c.BootstrapSession(ctx)
}

// RefreshSession rotates the session token before it expires. One retry with
// exponential backoff covers transient failures; a refresh the backend
// rejects outright falls back to a full re-bootstrap.
func (c *Client) RefreshSession(ctx context.Context) error {
	if !c.session.Ready() {
		return types.ErrNoSession
	}

	var resp *types.BootstrapResponse
	op := func() error {
		r, err := api.SessionRefresh(ctx, c.http, c.baseURL)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 1), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		sessionRefreshFailuresTotal.Inc()
		c.log.Warn().Err(err).Msg("session refresh failed, re-bootstrapping")
		c.session.Clear(true)
		return c.BootstrapSession(ctx)
	}

	c.session.SetToken(resp.Token)
	c.session.SetIdentity(resp.AnonID, resp.Username, resp.ExpiresAt)
	return nil
}

// Me fetches the backend's view of the current session.
func (c *Client) Me(ctx context.Context) (*MeResponse, error) {
	if !c.session.Ready() {
		return nil, types.ErrNoSession
	}
	return api.SessionMe(ctx, c.http, c.baseURL)
}

// SessionReady reports whether a bearer token is stored.
func (c *Client) SessionReady() bool { return c.session.Ready() }

// AnonID returns the stored anonymous identity, empty before bootstrap.
func (c *Client) AnonID() string { return c.session.AnonID() }

// Username returns the stored display handle, empty before bootstrap.
func (c *Client) Username() string { return c.session.Username() }

// SessionExpiresAt returns the stored token expiry.
func (c *Client) SessionExpiresAt() (time.Time, bool) { return c.session.ExpiresAt() }

// ClearSession drops the token and identity. Device keys survive so the next
// bootstrap reclaims the same anonymous account.
func (c *Client) ClearSession() { c.session.Clear(true) }

// ResetIdentity drops everything including device keys. The next bootstrap
// creates a brand new anonymous account.
func (c *Client) ResetIdentity() { c.session.Clear(false) }
