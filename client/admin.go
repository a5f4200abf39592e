package client

import (
	"context"

	"github.com/Zephy88r/AnoN-sub000/internal/api"
	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

// Admin console operations. These carry their own bearer token, separate
// from the anonymous session token.

// AdminLogin exchanges the console password for a moderation token.
func (c *Client) AdminLogin(ctx context.Context, password string) (string, error) {
	resp, err := api.AdminLogin(ctx, c.http, c.baseURL, types.AdminLoginRequest{Password: password})
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// AdminPosts lists every post for moderation.
func (c *Client) AdminPosts(ctx context.Context, token string) ([]Post, error) {
	return api.AdminPosts(ctx, c.http, c.baseURL, token)
}

// AdminDeletePost removes a post.
func (c *Client) AdminDeletePost(ctx context.Context, token, postID string) error {
	return api.AdminDeletePost(ctx, c.http, c.baseURL, token, postID)
}

// AdminUsers lists anonymous accounts.
func (c *Client) AdminUsers(ctx context.Context, token string) ([]AdminUser, error) {
	return api.AdminUsers(ctx, c.http, c.baseURL, token)
}

// AdminStats returns the dashboard headline block.
func (c *Client) AdminStats(ctx context.Context, token string) (*AdminStats, error) {
	return api.AdminStatsFetch(ctx, c.http, c.baseURL, token)
}

// AdminSessions lists live sessions.
func (c *Client) AdminSessions(ctx context.Context, token string) ([]AdminSession, error) {
	return api.AdminSessions(ctx, c.http, c.baseURL, token)
}

// AdminTrustLinks dumps the trust graph.
func (c *Client) AdminTrustLinks(ctx context.Context, token string) ([]TrustLink, error) {
	return api.AdminTrustLinks(ctx, c.http, c.baseURL, token)
}

// AdminReports lists posting-rate outliers.
func (c *Client) AdminReports(ctx context.Context, token string) ([]AbuseReport, error) {
	return api.AdminReports(ctx, c.http, c.baseURL, token)
}

// AdminAudit lists moderation audit rows.
func (c *Client) AdminAudit(ctx context.Context, token string) ([]AuditLog, error) {
	return api.AdminAudit(ctx, c.http, c.baseURL, token)
}
