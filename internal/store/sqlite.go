// Package store keeps encoded save blobs in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/napolitain/techtree/internal/savegame"
)

// ErrNoSave is returned when no save matches a lookup
var ErrNoSave = errors.New("store: no such save")

const schema = `
CREATE TABLE IF NOT EXISTS saves (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    turn        INTEGER NOT NULL,
    compression TEXT NOT NULL,
    size        INTEGER NOT NULL,
    data        BLOB NOT NULL,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS saves_name ON saves(name, id);
`

// Entry describes a stored save without its blob
type Entry struct {
	ID          int64
	Name        string
	Turn        int
	Compression savegame.Compression
	Size        int // stored blob size in bytes
	CreatedAt   time.Time
}

// Store is a SQLite-backed save slot table
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a save blob under name. The blob header must be valid.
func (s *Store) Put(ctx context.Context, name string, turn int, blob []byte) (int64, error) {
	h, err := savegame.ReadHeader(blob)
	if err != nil {
		return 0, fmt.Errorf("store: put %q: %w", name, err)
	}
	const q = `INSERT INTO saves (name, turn, compression, size, data) VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, name, turn, h.Compression.String(), len(blob), blob)
	if err != nil {
		return 0, fmt.Errorf("store: put %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: put %q: %w", name, err)
	}
	return id, nil
}

// Get returns the blob stored under id
func (s *Store) Get(ctx context.Context, id int64) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM saves WHERE id = ?", id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNoSave, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %d: %w", id, err)
	}
	return blob, nil
}

// Latest returns the most recent save stored under name
func (s *Store) Latest(ctx context.Context, name string) (Entry, []byte, error) {
	const q = `
		SELECT id, name, turn, compression, size, created_at, data
		FROM saves WHERE name = ? ORDER BY id DESC LIMIT 1`
	var (
		e    Entry
		comp string
		blob []byte
	)
	err := s.db.QueryRowContext(ctx, q, name).Scan(&e.ID, &e.Name, &e.Turn, &comp, &e.Size, &e.CreatedAt, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, nil, fmt.Errorf("%w: %q", ErrNoSave, name)
	}
	if err != nil {
		return Entry{}, nil, fmt.Errorf("store: latest %q: %w", name, err)
	}
	if e.Compression, err = savegame.ParseCompression(comp); err != nil {
		return Entry{}, nil, fmt.Errorf("store: latest %q: %w", name, err)
	}
	return e, blob, nil
}

// List returns every save, newest first. An empty name lists all names.
func (s *Store) List(ctx context.Context, name string) ([]Entry, error) {
	q := `SELECT id, name, turn, compression, size, created_at FROM saves`
	var args []any
	if name != "" {
		q += ` WHERE name = ?`
		args = append(args, name)
	}
	q += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e    Entry
			comp string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Turn, &comp, &e.Size, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan save: %w", err)
		}
		if e.Compression, err = savegame.ParseCompression(comp); err != nil {
			return nil, fmt.Errorf("store: save %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return entries, nil
}

// Delete removes a save by id
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM saves WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("store: delete %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %d", ErrNoSave, id)
	}
	return nil
}
