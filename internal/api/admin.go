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

// The moderation console authenticates with its own bearer token, so every
// admin wrapper sets the Authorization header explicitly. The session token
// transport leaves pre-set headers alone.

// AdminLogin authenticates the moderation console. Unauthenticated.
func AdminLogin(ctx context.Context, httpClient *http.Client, baseURL string, req types.AdminLoginRequest) (*types.AdminLoginResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/admin/login", baseURL)
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
		return nil, fmt.Errorf("admin login: status %d", resp.StatusCode)
	}

	var out types.AdminLoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// adminGet fetches one admin collection with the console token.
func adminGet[T any](ctx context.Context, httpClient *http.Client, baseURL, path, token, op string) (T, error) {
	var out T
	if err := ctx.Err(); err != nil {
		return out, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return out, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return out, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("%s: status %d", op, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// AdminPosts lists every post for moderation.
func AdminPosts(ctx context.Context, httpClient *http.Client, baseURL, token string) ([]types.Post, error) {
	return adminGet[[]types.Post](ctx, httpClient, baseURL, "/admin/posts", token, "admin posts")
}

// AdminDeletePost removes a post.
func AdminDeletePost(ctx context.Context, httpClient *http.Client, baseURL, token, postID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u := fmt.Sprintf("%s/admin/posts/%s", baseURL, url.PathEscape(postID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return types.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("admin delete post: status %d", resp.StatusCode)
	}
	return nil
}

// AdminUsers lists anonymous accounts.
func AdminUsers(ctx context.Context, httpClient *http.Client, baseURL, token string) ([]types.AdminUser, error) {
	return adminGet[[]types.AdminUser](ctx, httpClient, baseURL, "/admin/users", token, "admin users")
}

// AdminStatsFetch returns the dashboard headline block.
func AdminStatsFetch(ctx context.Context, httpClient *http.Client, baseURL, token string) (*types.AdminStats, error) {
	out, err := adminGet[types.AdminStats](ctx, httpClient, baseURL, "/admin/stats", token, "admin stats")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminSessions lists live sessions.
func AdminSessions(ctx context.Context, httpClient *http.Client, baseURL, token string) ([]types.AdminSession, error) {
	return adminGet[[]types.AdminSession](ctx, httpClient, baseURL, "/admin/sessions", token, "admin sessions")
}

// AdminTrustLinks dumps the trust graph.
func AdminTrustLinks(ctx context.Context, httpClient *http.Client, baseURL, token string) ([]types.TrustLink, error) {
	return adminGet[[]types.TrustLink](ctx, httpClient, baseURL, "/admin/trust-links", token, "admin trust links")
}

// AdminReports lists posting-rate outliers.
func AdminReports(ctx context.Context, httpClient *http.Client, baseURL, token string) ([]types.AbuseReport, error) {
	return adminGet[[]types.AbuseReport](ctx, httpClient, baseURL, "/admin/reports", token, "admin reports")
}

// AdminAudit lists moderation audit rows.
func AdminAudit(ctx context.Context, httpClient *http.Client, baseURL, token string) ([]types.AuditLog, error) {
	return adminGet[[]types.AuditLog](ctx, httpClient, baseURL, "/admin/audit", token, "admin audit")
}
