package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestNormalizeCode(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"canonical", "AB12-CD34", "AB12-CD34", true},
		{"lowercase", "ab12cd34", "AB12-CD34", true},
		{"noisy separators", " ab12 _ cd34 ", "AB12-CD34", true},
		{"too short", "AB12-CD3", "", false},
		{"too long", "AB12-CD345", "", false},
		{"empty", "", "", false},
		{"only separators", "----", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeCode(tc.in)
			if !tc.ok {
				require.ErrorIs(t, err, ErrCodeMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLinkCardEffectiveStatus(t *testing.T) {
	now := mustTime(t, "2026-08-31T12:00:00Z")

	active := LinkCard{Status: CardActive, ExpiresAt: mustTime(t, "2026-09-01T12:00:00Z")}
	assert.Equal(t, CardActive, active.EffectiveStatus(now))

	stale := LinkCard{Status: CardActive, ExpiresAt: mustTime(t, "2026-08-30T12:00:00Z")}
	assert.Equal(t, CardExpired, stale.EffectiveStatus(now))

	// Terminal states are not re-derived.
	used := LinkCard{Status: CardUsed, ExpiresAt: mustTime(t, "2026-08-30T12:00:00Z")}
	assert.Equal(t, CardUsed, used.EffectiveStatus(now))
}
