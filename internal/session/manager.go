// Package session keeps the device identity and session bookkeeping behind
// an explicit object instead of module-level globals, so state cannot leak
// across reloads or tests.
package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"

	"github.com/Zephy88r/AnoN-sub000/internal/kv"
)

const (
	devicePublicIDKey = "ghost_device_public_id"
	deviceSecretKey   = "ghost_device_secret"
	tokenKey          = "session_token"
	anonIDKey         = "ghost_anon_id"
	usernameKey       = "ghost_username"
	expiryKey         = "ghost_session_expiry"

	// Unprefixed key names written by early builds, migrated on first read.
	legacyAnonIDKey = "anon_id"
	legacyExpiryKey = "session_expiry"

	schemaVersion = 1

	pbkdf2Iterations = 120000
	secretBytes      = 32
)

// DeviceKeys is the durable anonymous device identity.
type DeviceKeys struct {
	PublicID string
	Secret   string
}

// Manager owns all session state in the kv store.
type Manager struct {
	store *kv.Store
	nowFn func() time.Time
	mu    sync.Mutex
}

// NewManager wraps the given store.
func NewManager(store *kv.Store) *Manager {
	return &Manager{store: store, nowFn: time.Now}
}

// SetNowFunc overrides the clock. Intended for tests.
func (m *Manager) SetNowFunc(fn func() time.Time) { m.nowFn = fn }

// EnsureDeviceKeys returns the device keypair, generating and persisting a
// fresh one on first use.
func (m *Manager) EnsureDeviceKeys() (DeviceKeys, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := DeviceKeys{
		PublicID: kv.Get(m.store, devicePublicIDKey, "", &kv.Options[string]{Version: schemaVersion}),
		Secret:   kv.Get(m.store, deviceSecretKey, "", &kv.Options[string]{Version: schemaVersion}),
	}
	if keys.PublicID == "" {
		keys.PublicID = uuid.NewString()
		if err := kv.SetVersioned(m.store, devicePublicIDKey, keys.PublicID, schemaVersion); err != nil {
			return DeviceKeys{}, fmt.Errorf("persist device public id: %w", err)
		}
	}
	if keys.Secret == "" {
		buf := make([]byte, secretBytes)
		if _, err := rand.Read(buf); err != nil {
			return DeviceKeys{}, fmt.Errorf("generate device secret: %w", err)
		}
		keys.Secret = base64.StdEncoding.EncodeToString(buf)
		if err := kv.SetVersioned(m.store, deviceSecretKey, keys.Secret, schemaVersion); err != nil {
			return DeviceKeys{}, fmt.Errorf("persist device secret: %w", err)
		}
	}
	return keys, nil
}

// HasDeviceKeys reports whether a device identity has been persisted.
func (m *Manager) HasDeviceKeys() bool {
	pub := kv.Get(m.store, devicePublicIDKey, "", &kv.Options[string]{Version: schemaVersion})
	sec := kv.Get(m.store, deviceSecretKey, "", &kv.Options[string]{Version: schemaVersion})
	return pub != "" && sec != ""
}

// SecretHash derives the device secret hash the backend stores: PBKDF2-SHA256
// over the secret, salted with the device public id.
func SecretHash(keys DeviceKeys) string {
	bits := pbkdf2.Key([]byte(keys.Secret), []byte(keys.PublicID), pbkdf2Iterations, sha256.Size, sha256.New)
	return base64.StdEncoding.EncodeToString(bits)
}

// Proof signs a challenge message with HMAC-SHA256 keyed by the decoded
// secret hash. The message shape is "<publicID>|<nonce>|<unix ts>".
func Proof(secretHash, message string) (string, error) {
	key, err := base64.StdEncoding.DecodeString(secretHash)
	if err != nil {
		return "", fmt.Errorf("decode secret hash: %w", err)
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// ChallengeMessage builds the canonical string a proof covers.
func ChallengeMessage(devicePublicID, nonce string, ts int64) string {
	return fmt.Sprintf("%s|%s|%d", devicePublicID, nonce, ts)
}

// Token returns the current bearer token, empty when signed out.
func (m *Manager) Token() string {
	return kv.Get(m.store, tokenKey, "", &kv.Options[string]{Version: schemaVersion})
}

// SetToken stores the bearer token.
func (m *Manager) SetToken(token string) {
	_ = kv.SetVersioned(m.store, tokenKey, token, schemaVersion)
}

// Ready reports whether a session token is present. Callers still have to
// handle 401s: presence does not imply validity.
func (m *Manager) Ready() bool { return m.Token() != "" }

// SetIdentity records the anonymous identity returned by bootstrap or /me.
func (m *Manager) SetIdentity(anonID, username string, expiresAt time.Time) {
	_ = kv.SetVersioned(m.store, anonIDKey, anonID, schemaVersion)
	_ = kv.SetVersioned(m.store, usernameKey, username, schemaVersion)
	if !expiresAt.IsZero() {
		_ = kv.SetVersioned(m.store, expiryKey, expiresAt.UTC().UnixMilli(), schemaVersion)
	}
}

// AnonID returns the session's anonymous id, migrating the legacy key once.
func (m *Manager) AnonID() string {
	if id := kv.Get(m.store, anonIDKey, "", &kv.Options[string]{Version: schemaVersion}); id != "" {
		return id
	}
	if legacy := kv.Get(m.store, legacyAnonIDKey, "", &kv.Options[string]{Version: schemaVersion}); legacy != "" {
		_ = kv.SetVersioned(m.store, anonIDKey, legacy, schemaVersion)
		m.store.Remove(legacyAnonIDKey)
		return legacy
	}
	return ""
}

// Username returns the session's display handle.
func (m *Manager) Username() string {
	return kv.Get(m.store, usernameKey, "", &kv.Options[string]{Version: schemaVersion})
}

// ExpiresAt returns the session expiry, if known.
func (m *Manager) ExpiresAt() (time.Time, bool) {
	millis := kv.Get(m.store, expiryKey, int64(0), &kv.Options[int64]{Version: schemaVersion})
	if millis == 0 {
		if legacy := kv.Get(m.store, legacyExpiryKey, int64(0), &kv.Options[int64]{Version: schemaVersion}); legacy != 0 {
			_ = kv.SetVersioned(m.store, expiryKey, legacy, schemaVersion)
			m.store.Remove(legacyExpiryKey)
			millis = legacy
		}
	}
	if millis == 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(millis).UTC(), true
}

// Expired reports whether the session is past its recorded expiry. Unknown
// expiry counts as not expired.
func (m *Manager) Expired() bool {
	exp, ok := m.ExpiresAt()
	if !ok {
		return false
	}
	return !m.nowFn().Before(exp)
}

// TimeUntilExpiry returns the remaining session lifetime, zero when expired
// or unknown.
func (m *Manager) TimeUntilExpiry() time.Duration {
	exp, ok := m.ExpiresAt()
	if !ok {
		return 0
	}
	d := exp.Sub(m.nowFn())
	if d < 0 {
		return 0
	}
	return d
}

// Clear wipes session state. Device keys survive unless keepDeviceKeys is
// false, so the same anonymous identity can bootstrap again.
func (m *Manager) Clear(keepDeviceKeys bool) {
	m.store.Remove(anonIDKey)
	m.store.Remove(usernameKey)
	m.store.Remove(expiryKey)
	m.store.Remove(tokenKey)
	if !keepDeviceKeys {
		m.store.Remove(devicePublicIDKey)
		m.store.Remove(deviceSecretKey)
	}
}
