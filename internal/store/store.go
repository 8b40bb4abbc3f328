package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/inamate/canvas/internal/document"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("key not found")

// Store is a small key-value store on SQLite. Values are opaque bytes;
// documents are stored as their JSON encoding.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite file at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.conn.QueryRowContext(ctx, `SELECT value FROM entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO entries (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// LoadDocument reads the document stored under key. A missing entry, a
// read failure or corrupt JSON all yield a usable document; found reports
// whether an entry existed.
func (s *Store) LoadDocument(ctx context.Context, key string) (doc document.Persisted, found bool) {
	data, err := s.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		return document.NewPersisted(), false
	case err != nil:
		slog.Error("load document", "key", key, "error", err)
		return document.NewPersisted(), false
	}
	return document.Decode(data), true
}

// SaveDocument encodes and stores doc under key.
func (s *Store) SaveDocument(ctx context.Context, key string, doc document.Persisted) error {
	data, err := document.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return s.Put(ctx, key, data)
}
