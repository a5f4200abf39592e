package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Zephy88r/AnoN-sub000/internal/kv"
	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

// Option configures a Client during construction in New.
//
// Options are applied before the session-token transport wrapper is
// installed, so transport-related options (like debug logging) will be
// placed underneath it. Options must be deterministic and side-effect free.
type Option func(*Client) error

// WithHTTPTimeout sets the underlying http.Client Timeout used by the SDK.
//
// Prefer per-request context deadlines where possible; this timeout is a
// coarse safety net that bounds the total time spent on a single HTTP request
// (including connection, TLS handshake, redirects, and reading the response).
// The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged when enabled is true.
//
// The debug transport is installed beneath the session-token wrapper; logs
// are emitted before the request is forwarded to the next transport.
// Do not enable this option in production environments as it increases
// verbosity and may include headers and method/URL metadata in logs.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.http.Transport = &debugTransport{base: c.http.Transport}
		}
		return nil
	}
}

// WithStoreBackend supplies the key-value backend for local state.
// Useful for tests (kv.NewMemoryBackend) and for sharing one backend
// between clients.
func WithStoreBackend(b kv.Backend) Option {
	return func(c *Client) error {
		if b == nil {
			return fmt.Errorf("store backend cannot be nil")
		}
		c.backend = b
		return nil
	}
}

// WithDataDir points local state at an explicit SQLite file path instead of
// the default dotdir location. Ignored when WithStoreBackend is also given.
func WithDataDir(path string) Option {
	return func(c *Client) error {
		if path == "" {
			return fmt.Errorf("data dir cannot be empty")
		}
		c.dataDir = path
		return nil
	}
}

// WithWSBaseURL overrides the WebSocket root derived from the REST base URL.
func WithWSBaseURL(wsURL string) Option {
	return func(c *Client) error {
		if wsURL == "" {
			return fmt.Errorf("ws base url cannot be empty")
		}
		c.wsURL = wsURL
		return nil
	}
}

// WithRegion scopes the geo-pulse simulation to a named region.
func WithRegion(region string) Option {
	return func(c *Client) error {
		if region == "" {
			return fmt.Errorf("region cannot be empty")
		}
		c.region = region
		return nil
	}
}

// WithGeoMode selects the privacy transform: GeoModeGhost (coarse) or
// GeoModeReveal (finer).
func WithGeoMode(mode types.GeoMode) Option {
	return func(c *Client) error {
		switch mode {
		case types.GeoModeGhost, types.GeoModeReveal:
			c.mode = mode
			return nil
		default:
			return fmt.Errorf("unsupported geo mode: %s", mode)
		}
	}
}

// WithLogger replaces the default component logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) error {
		c.log = log
		return nil
	}
}
