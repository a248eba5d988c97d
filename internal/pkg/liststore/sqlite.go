package liststore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS lists (
	key TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);`

// SQLiteStore keeps lists in an embedded SQLite database
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (and creates if needed) the database at path
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create lists table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

type listRow struct {
	Data      []byte `db:"data"`
	UpdatedAt int64  `db:"updated_at"`
}

// Get implements Store
func (s *SQLiteStore) Get(ctx context.Context, key Key) ([]byte, int64, error) {
	var row listRow
	err := s.db.GetContext(ctx, &row, `SELECT data, updated_at FROM lists WHERE key = ?`, string(key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Absent, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return row.Data, row.UpdatedAt, nil
}

// Put implements Store
func (s *SQLiteStore) Put(ctx context.Context, key Key, data []byte, expected int64) (int64, error) {
	version := nextVersion(expected)

	var (
		res sql.Result
		err error
	)
	switch expected {
	case AnyVersion:
		res, err = s.db.ExecContext(ctx,
			`INSERT INTO lists (key, data, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
			string(key), data, version)
	case Absent:
		res, err = s.db.ExecContext(ctx,
			`INSERT INTO lists (key, data, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO NOTHING`,
			string(key), data, version)
	default:
		res, err = s.db.ExecContext(ctx,
			`UPDATE lists SET data = ?, updated_at = ? WHERE key = ? AND updated_at = ?`,
			data, version, string(key), expected)
	}
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrConflict
	}
	return version, nil
}

// Close implements Store
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
