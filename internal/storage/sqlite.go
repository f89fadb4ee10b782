package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite stores documents in a single kv table of an SQLite file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// SQLiteOpener adapts OpenSQLite to an Opener.
func SQLiteOpener(path string) Opener {
	return func(ctx context.Context) (Backend, error) {
		return OpenSQLite(ctx, path)
	}
}

func (s *SQLite) Name() string { return "sqlite" }

func (s *SQLite) Put(ctx context.Context, key string, value []byte, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, ?)`,
		key, string(value), at.UnixMilli(),
	)
	return err
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, time.Time, error) {
	var (
		value string
		ms    int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, updated_at FROM kv WHERE key = ?`, key,
	).Scan(&value, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	return []byte(value), time.UnixMilli(ms), nil
}

func (s *SQLite) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv`)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
