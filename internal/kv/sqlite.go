package kv

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteBackend stores keys in a single table of a SQLite database file.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) a SQLite database at the given path and
// enables WAL journal mode for better concurrency on read-heavy workloads.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	b := &SQLiteBackend{db: db}
	if err := b.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

// NewSQLiteBackendWithDB allows wiring with an existing connection.
func NewSQLiteBackendWithDB(db *sql.DB) (*SQLiteBackend, error) {
	b := &SQLiteBackend{db: db}
	if err := b.ensureSchema(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *SQLiteBackend) ensureSchema() error {
	_, err := b.db.Exec(`CREATE TABLE IF NOT EXISTS KeyValues (
        Key TEXT PRIMARY KEY,
        Value TEXT NOT NULL,
        UpdateTime TIMESTAMP NOT NULL
    );`)
	return err
}

func (b *SQLiteBackend) Get(key string) (string, bool, error) {
	var v string
	err := b.db.QueryRow(`SELECT Value FROM KeyValues WHERE Key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (b *SQLiteBackend) Set(key, value string) error {
	_, err := b.db.Exec(
		`INSERT INTO KeyValues (Key, Value, UpdateTime) VALUES (?,?,CURRENT_TIMESTAMP)
         ON CONFLICT(Key) DO UPDATE SET Value = excluded.Value, UpdateTime = excluded.UpdateTime`,
		key, value)
	return err
}

func (b *SQLiteBackend) Delete(key string) error {
	_, err := b.db.Exec(`DELETE FROM KeyValues WHERE Key = ?`, key)
	return err
}

func (b *SQLiteBackend) Keys() ([]string, error) {
	rows, err := b.db.Query(`SELECT Key FROM KeyValues ORDER BY Key`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (b *SQLiteBackend) Close() error { return b.db.Close() }
