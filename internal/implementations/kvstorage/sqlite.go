package kvstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const (
	sqliteInit = `
CREATE TABLE IF NOT EXISTS key_value (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at INTEGER NOT NULL
)
`

	sqliteGet = "SELECT value FROM key_value WHERE key = ?"

	sqliteSet = `
INSERT INTO key_value (key, value, updated_at) VALUES (?, ?, strftime('%s', 'now'))
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

	sqliteDelete = "DELETE FROM key_value WHERE key = ?"
)

// Sqlite keeps values in a single table of an embedded database file.
type Sqlite struct {
	db *sql.DB
}

func OpenSqlite(ctx context.Context, path string) (*Sqlite, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path))
	if err != nil {
		return nil, err
	}
	// One writer at a time, sqlite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteInit); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not initialize sqlite schema: %w", err)
	}
	return &Sqlite{db: db}, nil
}

func (s *Sqlite) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, sqliteGet, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Sqlite) Set(ctx context.Context, key string, value string) error {
	_, err := s.db.ExecContext(ctx, sqliteSet, key, value)
	return err
}

func (s *Sqlite) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, sqliteDelete, key)
	return err
}

func (s *Sqlite) Close() error {
	return s.db.Close()
}
