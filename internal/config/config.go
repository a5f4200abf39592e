// Package config loads client configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

// Config holds the ghost client configuration.
// Environment variables are parsed from the GHOST_ prefix.
type Config struct {
	// APIBaseURL is the REST backend root, without a trailing slash.
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:8787/api"`

	// WSBaseURL is the WebSocket root. Derived from APIBaseURL when empty.
	WSBaseURL string `envconfig:"WS_BASE_URL" default:""`

	// DataDir overrides the local state directory.
	DataDir string `envconfig:"DATA_DIR" default:""`

	// Region scopes the geo-pulse simulation.
	Region string `envconfig:"REGION" default:"default"`

	// GeoMode is "ghost" or "reveal".
	GeoMode string `envconfig:"GEO_MODE" default:"ghost"`

	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	Debug bool `envconfig:"DEBUG" default:"false"`
}

// ResolveDefaults validates GeoMode and derives WSBaseURL when empty.
func (c *Config) ResolveDefaults() error {
	switch types.GeoMode(c.GeoMode) {
	case types.GeoModeGhost, types.GeoModeReveal:
	default:
		return fmt.Errorf("unsupported GEO_MODE: %s", c.GeoMode)
	}
	if c.WSBaseURL == "" {
		c.WSBaseURL = deriveWSBase(c.APIBaseURL)
	}
	return nil
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

// New creates a Config from GHOST_-prefixed environment variables.
// Example: GHOST_API_BASE_URL, GHOST_REGION, GHOST_GEO_MODE.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("GHOST", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
