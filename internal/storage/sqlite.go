package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/pfrederiksen/savedplaces/internal/place"
)

// SQLiteStore keeps records as JSON text in a SQLite table
type SQLiteStore struct {
	db *sql.DB
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS places (
	slug       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// NewSQLiteStore opens the database at path and applies the schema.
// Without create the database file must already exist.
func NewSQLiteStore(ctx context.Context, path string, create bool) (*SQLiteStore, error) {
	if path == "" {
		return nil, eris.New("sqlite: database path is empty")
	}

	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	if path != ":memory:" {
		if create {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, eris.Wrap(err, "sqlite: creating data directory")
			}
		} else if _, err := os.Stat(path); err != nil {
			return nil, eris.Wrapf(err, "sqlite: opening %s", path)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// One process, one connection; also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the places table if needed
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Get loads a record by slug
func (s *SQLiteStore) Get(ctx context.Context, key string) (place.Record, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM places WHERE slug = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: %s", key)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get %s", key)
	}

	rec, err := place.DecodeRecord([]byte(data))
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: parsing %s", key)
	}
	return rec, nil
}

// Put upserts a record
func (s *SQLiteStore) Put(ctx context.Context, key string, rec place.Record) error {
	if err := validKey(key); err != nil {
		return err
	}

	data, err := place.EncodeRecord(rec)
	if err != nil {
		return eris.Wrapf(err, "sqlite: encoding %s", key)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO places (slug, data, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(slug) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, string(data))
	return eris.Wrapf(err, "sqlite: put %s", key)
}

// Keys lists every slug in ascending order
func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slug FROM places ORDER BY slug`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list keys")
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan key")
		}
		keys = append(keys, key)
	}
	return keys, eris.Wrap(rows.Err(), "sqlite: list keys")
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
