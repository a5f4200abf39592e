// Package prefs keeps small durable UI preferences: the display theme and
// the local notification list.
package prefs

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zephy88r/AnoN-sub000/internal/kv"
	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

const (
	themeKey         = "g-host-theme"
	notificationsKey = "notifications"

	schemaVersion = 1
)

// Store owns the preference state in the kv store.
type Store struct {
	store *kv.Store
	nowFn func() time.Time

	mu            sync.Mutex
	notifications []types.Notification
}

// NewStore wraps the given kv store, loading any persisted notifications.
func NewStore(store *kv.Store) *Store {
	s := &Store{store: store, nowFn: time.Now}
	s.notifications = kv.Get(store, notificationsKey, nil,
		&kv.Options[[]types.Notification]{Version: schemaVersion})
	return s
}

// SetNowFunc overrides the clock. Intended for tests.
func (s *Store) SetNowFunc(fn func() time.Time) { s.nowFn = fn }

// Theme returns the stored theme preference, defaulting to system. Unknown
// stored values also read as system.
func (s *Store) Theme() types.ThemeMode {
	mode := types.ThemeMode(kv.Get(s.store, themeKey, string(types.ThemeSystem),
		&kv.Options[string]{Version: schemaVersion}))
	switch mode {
	case types.ThemeSystem, types.ThemeLight, types.ThemeDark:
		return mode
	}
	return types.ThemeSystem
}

// SetTheme persists the theme preference.
func (s *Store) SetTheme(mode types.ThemeMode) error {
	switch mode {
	case types.ThemeSystem, types.ThemeLight, types.ThemeDark:
	default:
		return types.ErrNotFound
	}
	return kv.SetVersioned(s.store, themeKey, string(mode), schemaVersion)
}

func (s *Store) persist() {
	_ = kv.SetVersioned(s.store, notificationsKey, s.notifications, schemaVersion)
}

// Add prepends a notification, assigning its id and timestamp.
func (s *Store) Add(title, message string, typ types.NotificationType) types.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := types.Notification{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		Message:   strings.TrimSpace(message),
		CreatedAt: s.nowFn().UTC(),
		Type:      typ,
	}
	s.notifications = append([]types.Notification{n}, s.notifications...)
	s.persist()
	return n
}

// MarkRead flags one notification as read. Unknown ids are ignored.
func (s *Store) MarkRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].IsRead = true
			s.persist()
			return
		}
	}
}

// MarkAllRead flags every notification as read.
func (s *Store) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		s.notifications[i].IsRead = true
	}
	s.persist()
}

// Remove drops one notification. Unknown ids are ignored.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.notifications[:0]
	for _, n := range s.notifications {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	if len(kept) != len(s.notifications) {
		s.notifications = kept
		s.persist()
	}
}

// Notifications returns the list, newest first.
func (s *Store) Notifications() []types.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// HasUnread reports whether any notification is unread.
func (s *Store) HasUnread() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications {
		if !n.IsRead {
			return true
		}
	}
	return false
}
