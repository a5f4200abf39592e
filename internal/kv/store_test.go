package kv

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(NewMemoryBackend(), zerolog.Nop())
}

type profileV1 struct {
	Name string `json:"name"`
}

type profileV2 struct {
	DisplayName string `json:"display_name"`
}

func TestGet_MissingKeyReturnsFallback(t *testing.T) {
	s := newTestStore()
	got := Get(s, "absent", "default", nil)
	assert.Equal(t, "default", got)
}

func TestSetVersionedRoundTrip(t *testing.T) {
	s := newTestStore()
	require.NoError(t, SetVersioned(s, "profile", profileV1{Name: "ghost"}, 1))

	got := Get(s, "profile", profileV1{}, &Options[profileV1]{Version: 1})
	assert.Equal(t, "ghost", got.Name)
}

func TestGet_CorruptTextFallsBack(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.backend.Set(Prefix+"bad", "{not json"))

	got := Get(s, "bad", profileV1{Name: "fallback"}, &Options[profileV1]{Version: 1})
	assert.Equal(t, "fallback", got.Name)
}

func TestGet_VersionMismatchWithoutMigrationFallsBack(t *testing.T) {
	s := newTestStore()
	require.NoError(t, SetVersioned(s, "profile", profileV1{Name: "old"}, 1))

	got := Get(s, "profile", profileV2{DisplayName: "fallback"}, &Options[profileV2]{Version: 2})
	assert.Equal(t, "fallback", got.DisplayName)
}

func TestGet_MigrationRunsExactlyOnce(t *testing.T) {
	s := newTestStore()
	require.NoError(t, SetVersioned(s, "profile", profileV1{Name: "old"}, 1))

	calls := 0
	opts := &Options[profileV2]{
		Version: 2,
		Migrate: func(raw json.RawMessage, from int) (profileV2, error) {
			calls++
			assert.Equal(t, 1, from)
			var v1 profileV1
			if err := json.Unmarshal(raw, &v1); err != nil {
				return profileV2{}, err
			}
			return profileV2{DisplayName: v1.Name}, nil
		},
	}

	got := Get(s, "profile", profileV2{}, opts)
	assert.Equal(t, "old", got.DisplayName)
	assert.Equal(t, 1, calls)

	// The migrated value is now stored under version 2; migrate must not run again.
	again := Get(s, "profile", profileV2{}, opts)
	assert.Equal(t, "old", again.DisplayName)
	assert.Equal(t, 1, calls)
}

func TestGet_LegacyRawValueMigratesFromVersionZero(t *testing.T) {
	s := newTestStore()
	// A bare JSON string stored before envelopes existed.
	require.NoError(t, s.backend.Set(Prefix+"anon_id", `"anon_123"`))

	opts := &Options[string]{
		Version: 1,
		Migrate: func(raw json.RawMessage, from int) (string, error) {
			assert.Equal(t, 0, from)
			var v string
			return v, json.Unmarshal(raw, &v)
		},
	}
	got := Get(s, "anon_id", "", opts)
	assert.Equal(t, "anon_123", got)

	// Written back as a version-1 envelope.
	raw, ok, err := s.backend.Get(Prefix + "anon_id")
	require.NoError(t, err)
	require.True(t, ok)
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	assert.Equal(t, 1, env.Version)
}

func TestGet_LegacyRawValueWithoutMigrationDecodesBestEffort(t *testing.T) {
	s := newTestStore()
	require.NoError(t, Set(s, "theme", "dark"))

	got := Get(s, "theme", "light", nil)
	assert.Equal(t, "dark", got)
}

func TestListKeysStripsPrefix(t *testing.T) {
	s := newTestStore()
	require.NoError(t, Set(s, "alpha", 1))
	require.NoError(t, Set(s, "beta", 2))
	require.NoError(t, s.backend.Set("other-app:gamma", "3"))

	keys := s.ListKeys()
	assert.ElementsMatch(t, []string{"alpha", "beta"}, keys)
}

func TestRemove(t *testing.T) {
	s := newTestStore()
	require.NoError(t, Set(s, "tmp", "x"))
	s.Remove("tmp")
	assert.Equal(t, "gone", Get(s, "tmp", "gone", nil))
}
