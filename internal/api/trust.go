package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

// RequestTrust opens a handshake by redeeming a link-card code.
func RequestTrust(ctx context.Context, httpClient *http.Client, baseURL string, req types.TrustHandshakeRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	u := fmt.Sprintf("%s/trust/request", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("trust request: status %d", resp.StatusCode)
	}
	return nil
}

// RespondTrust accepts or declines an incoming handshake.
func RespondTrust(ctx context.Context, httpClient *http.Client, baseURL string, req types.TrustRespondRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	u := fmt.Sprintf("%s/trust/respond", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return types.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("trust respond: status %d", resp.StatusCode)
	}
	return nil
}

// TrustStatus lists handshakes in both directions.
func TrustStatus(ctx context.Context, httpClient *http.Client, baseURL string) (*types.TrustStatusResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/trust/status", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trust status: status %d", resp.StatusCode)
	}

	var out types.TrustStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
