// Package storage persists preferences (the settings record and the theme)
// in a small SQLite key-value table.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// KV is a named string store
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// DB is a KV backed by SQLite
type DB struct {
	db   *sql.DB
	path string
}

// Open opens or creates prefs.db in the given directory
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	dbPath := filepath.Join(dir, "prefs.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS _meta (
			key   TEXT PRIMARY KEY,
			value TEXT
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create meta table: %w", err)
	}

	return &DB{db: db, path: dbPath}, nil
}

// Path returns the database file path
func (d *DB) Path() string {
	return d.path
}

// Close closes the database
func (d *DB) Close() error {
	return d.db.Close()
}

// Get implements KV
func (d *DB) Get(key string) (string, bool, error) {
	var value sql.NullString
	err := d.db.QueryRow(`SELECT value FROM _meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value.String, true, nil
}

// Set implements KV
func (d *DB) Set(key, value string) error {
	_, err := d.db.Exec(`
		INSERT INTO _meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Memory is an in-process KV used when no data directory is available
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty in-memory KV
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

// Get implements KV
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements KV
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
