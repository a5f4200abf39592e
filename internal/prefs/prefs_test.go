package prefs

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zephy88r/AnoN-sub000/internal/kv"
	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

func newTestStore() (*Store, *kv.Store) {
	store := kv.NewStore(kv.NewMemoryBackend(), zerolog.Nop())
	return NewStore(store), store
}

func TestThemeDefaultsToSystem(t *testing.T) {
	s, _ := newTestStore()
	assert.Equal(t, types.ThemeSystem, s.Theme())
}

func TestThemeRoundTripsAndSurvivesReload(t *testing.T) {
	s, store := newTestStore()

	require.NoError(t, s.SetTheme(types.ThemeDark))
	assert.Equal(t, types.ThemeDark, s.Theme())

	// A fresh wrapper over the same store sees the persisted value.
	assert.Equal(t, types.ThemeDark, NewStore(store).Theme())
}

func TestThemeRejectsUnknownMode(t *testing.T) {
	s, _ := newTestStore()
	assert.Error(t, s.SetTheme(types.ThemeMode("sepia")))
	assert.Equal(t, types.ThemeSystem, s.Theme())
}

func TestThemeIgnoresGarbageStoredValue(t *testing.T) {
	s, store := newTestStore()
	require.NoError(t, kv.SetVersioned(store, "g-host-theme", "neon", 1))
	assert.Equal(t, types.ThemeSystem, s.Theme())
}

func TestNotificationsPrependAndPersist(t *testing.T) {
	s, store := newTestStore()

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	s.SetNowFunc(func() time.Time { return now })

	first := s.Add("Trust request", "GhostFox wants to connect", types.NotifTrust)
	now = now.Add(time.Minute)
	second := s.Add("New message", "hey", types.NotifMessage)

	require.NotEmpty(t, first.ID)
	require.NotEqual(t, first.ID, second.ID)

	list := s.Notifications()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, types.NotifTrust, list[1].Type)
	assert.False(t, list[0].IsRead)

	// A fresh wrapper over the same store loads the persisted list.
	reloaded := NewStore(store).Notifications()
	require.Len(t, reloaded, 2)
	assert.Equal(t, second.ID, reloaded[0].ID)
}

func TestMarkReadAndHasUnread(t *testing.T) {
	s, _ := newTestStore()

	a := s.Add("a", "one", types.NotifSystem)
	b := s.Add("b", "two", types.NotifSystem)
	assert.True(t, s.HasUnread())

	s.MarkRead(a.ID)
	assert.True(t, s.HasUnread(), "b is still unread")

	s.MarkRead("n_missing")
	s.MarkRead(b.ID)
	assert.False(t, s.HasUnread())
}

func TestMarkAllReadAndRemove(t *testing.T) {
	s, store := newTestStore()

	a := s.Add("a", "one", types.NotifPost)
	s.Add("b", "two", types.NotifPost)

	s.MarkAllRead()
	assert.False(t, s.HasUnread())

	s.Remove(a.ID)
	s.Remove("n_missing")
	list := s.Notifications()
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Title)

	// Removal is persisted.
	assert.Len(t, NewStore(store).Notifications(), 1)
}
