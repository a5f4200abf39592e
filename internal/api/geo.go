package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

// SendGeoPing reports a privacy-transformed position to the backend.
func SendGeoPing(ctx context.Context, httpClient *http.Client, baseURL string, req types.GeoPingRequest) (*types.GeoPingAck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/geo/ping", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewBuffer(body))
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
		return nil, fmt.Errorf("geo ping: status %d", resp.StatusCode)
	}

	var out types.GeoPingAck
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NearbyPings lists fresh pings within km of the given position.
func NearbyPings(ctx context.Context, httpClient *http.Client, baseURL string, lat, lng, km float64) ([]types.GeoPingAck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%v", lat))
	q.Set("lng", fmt.Sprintf("%v", lng))
	q.Set("km", fmt.Sprintf("%v", km))
	u := fmt.Sprintf("%s/geo/nearby?%s", baseURL, q.Encode())
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
		return nil, fmt.Errorf("geo nearby: status %d", resp.StatusCode)
	}

	var out types.GeoNearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Pings, nil
}

// WSTicket fetches a short-lived ticket for the chat WebSocket upgrade.
func WSTicket(ctx context.Context, httpClient *http.Client, baseURL string, req types.WSTicketRequest) (*types.WSTicketResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/ws/ticket", baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewBuffer(body))
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
		return nil, fmt.Errorf("ws ticket: status %d", resp.StatusCode)
	}

	var out types.WSTicketResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
