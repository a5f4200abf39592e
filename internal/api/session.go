// Package api contains thin wrappers over the backend's JSON-over-HTTPS
// endpoints. The bearer token is added by the client's transport layer, not
// here; unauthenticated endpoints (device challenge, bootstrap, admin login)
// are served by the same wrappers since the transport simply has no token to
// attach yet.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

// DeviceChallenge asks the backend for a one-time login nonce.
func DeviceChallenge(ctx context.Context, httpClient *http.Client, baseURL string, req types.DeviceChallengeRequest) (*types.DeviceChallengeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/device/challenge", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("device challenge: status %d", resp.StatusCode)
	}

	var out types.DeviceChallengeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Bootstrap proves device possession and opens a session.
func Bootstrap(ctx context.Context, httpClient *http.Client, baseURL string, req types.BootstrapRequest) (*types.BootstrapResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/session/bootstrap", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("session bootstrap: status %d", resp.StatusCode)
	}

	var out types.BootstrapResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SessionMe describes the current session.
func SessionMe(ctx context.Context, httpClient *http.Client, baseURL string) (*types.MeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/session/me", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("session me: status %d", resp.StatusCode)
	}

	var out types.MeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SessionRefresh rotates the bearer token shortly before expiry.
func SessionRefresh(ctx context.Context, httpClient *http.Client, baseURL string) (*types.BootstrapResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/session/refresh", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("session refresh: status %d", resp.StatusCode)
	}

	var out types.BootstrapResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
