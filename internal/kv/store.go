package kv

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Prefix namespaces every key so the store can share a database with
// other applications.
const Prefix = "ghost:"

// Envelope is the versioned wrapper around every persisted value.
type Envelope struct {
	Version int             `json:"v"`
	SavedAt int64           `json:"t"` // unix milliseconds
	Data    json.RawMessage `json:"data"`
}

// MigrateFunc converts a value stored under an older schema version into the
// current shape. Raw legacy values (no envelope) arrive as fromVersion 0.
type MigrateFunc[T any] func(raw json.RawMessage, fromVersion int) (T, error)

// Options declares the schema version a caller expects for a key, plus an
// optional migration from older versions.
type Options[T any] struct {
	Version int
	Migrate MigrateFunc[T]
}

// Store wraps a Backend with the envelope/migration protocol. Reads are
// infallible by contract: anything unreadable resolves to the caller's
// fallback value.
type Store struct {
	backend Backend
	log     zerolog.Logger
	nowFn   func() time.Time
}

// NewStore wraps the given backend.
func NewStore(backend Backend, log zerolog.Logger) *Store {
	return &Store{backend: backend, log: log, nowFn: time.Now}
}

// SetNowFunc overrides the clock. Intended for tests.
func (s *Store) SetNowFunc(fn func() time.Time) { s.nowFn = fn }

// Close releases the underlying backend.
func (s *Store) Close() error { return s.backend.Close() }

// Remove deletes a key. Errors are swallowed like every other store failure.
func (s *Store) Remove(key string) {
	if err := s.backend.Delete(Prefix + key); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("kv remove failed")
	}
}

// ListKeys returns the store's own keys with the namespace prefix stripped.
// Useful for debugging.
func (s *Store) ListKeys() []string {
	raw, err := s.backend.Keys()
	if err != nil {
		s.log.Debug().Err(err).Msg("kv list keys failed")
		return nil
	}
	var keys []string
	for _, k := range raw {
		if len(k) > len(Prefix) && k[:len(Prefix)] == Prefix {
			keys = append(keys, k[len(Prefix):])
		}
	}
	return keys
}

// Get reads the value stored at key.
//
// Resolution order:
//   - missing key or unparseable text: fallback
//   - envelope with the requested version: its data
//   - envelope with a different version: migrated when opts.Migrate is set
//     (the result is written back under opts.Version), otherwise fallback
//   - raw legacy value (no envelope): migrated from version 0 when
//     opts.Migrate is set, otherwise decoded best-effort
//
// Get never fails; the worst case is silently returning fallback.
func Get[T any](s *Store, key string, fallback T, opts *Options[T]) T {
	raw, ok, err := s.backend.Get(Prefix + key)
	if err != nil || !ok {
		if err != nil {
			s.log.Debug().Err(err).Str("key", key).Msg("kv read failed")
		}
		return fallback
	}

	var parsed json.RawMessage
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.log.Debug().Str("key", key).Msg("kv value is not valid JSON")
		return fallback
	}

	if env, isEnv := asEnvelope(parsed); isEnv {
		targetVersion := env.Version
		if opts != nil {
			targetVersion = opts.Version
		}
		if env.Version == targetVersion {
			return decodeOr(s, key, env.Data, fallback)
		}
		if opts != nil && opts.Migrate != nil {
			migrated, err := opts.Migrate(env.Data, env.Version)
			if err != nil {
				s.log.Debug().Err(err).Str("key", key).Msg("kv migration failed")
				return fallback
			}
			_ = SetVersioned(s, key, migrated, opts.Version)
			return migrated
		}
		// Version mismatch without a migration: never surface stale-shaped
		// data as the wrong type.
		return fallback
	}

	// Legacy raw value. Treat as version 0 input to the migration path.
	if opts != nil && opts.Migrate != nil {
		migrated, err := opts.Migrate(parsed, 0)
		if err != nil {
			s.log.Debug().Err(err).Str("key", key).Msg("kv legacy migration failed")
			return fallback
		}
		_ = SetVersioned(s, key, migrated, opts.Version)
		return migrated
	}
	return decodeOr(s, key, parsed, fallback)
}

// Set writes a raw (non-enveloped) value. Prefer SetVersioned for anything
// whose shape may evolve.
func Set[T any](s *Store, key string, value T) error {
	buf, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.backend.Set(Prefix+key, string(buf))
}

// SetVersioned writes a value wrapped in a version envelope.
func SetVersioned[T any](s *Store, key string, value T, version int) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	env := Envelope{Version: version, SavedAt: s.nowFn().UnixMilli(), Data: data}
	buf, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return s.backend.Set(Prefix+key, string(buf))
}

// asEnvelope reports whether parsed is an envelope object, i.e. a JSON
// object carrying a numeric "v" and a "data" member.
func asEnvelope(parsed json.RawMessage) (Envelope, bool) {
	trimmed := string(parsed)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Envelope{}, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(parsed, &fields); err != nil {
		return Envelope{}, false
	}
	vRaw, hasV := fields["v"]
	dataRaw, hasData := fields["data"]
	if !hasV || !hasData {
		return Envelope{}, false
	}
	var version int
	if err := json.Unmarshal(vRaw, &version); err != nil {
		return Envelope{}, false
	}
	env := Envelope{Version: version, Data: dataRaw}
	if tRaw, ok := fields["t"]; ok {
		_ = json.Unmarshal(tRaw, &env.SavedAt)
	}
	return env, true
}

func decodeOr[T any](s *Store, key string, raw json.RawMessage, fallback T) T {
	if len(raw) == 0 || string(raw) == "null" {
		return fallback
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("kv value shape mismatch")
		return fallback
	}
	return out
}
