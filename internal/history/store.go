// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a local SQLite ledger of saved searches so that
// share links can be found again later. The session never reads it back;
// restoring always goes through the search service.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/papers-search/pkg/types"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 20

// timeLayout is fixed-width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by Get for an unknown handle.
var ErrNotFound = errors.New("history entry not found")

// Store is the saved-search ledger.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the ledger at cfg.Path, creating the parent
// directory and schema as needed.
func Open(cfg types.HistoryConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS saved_searches (
			handle TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			journal_filter TEXT,
			min_year INTEGER,
			share_url TEXT,
			result_count INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_saved_searches_created ON saved_searches(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores e. Recording a handle again replaces the earlier row.
// A zero CreatedAt is set to the current time.
func (s *Store) Record(ctx context.Context, e types.HistoryEntry) error {
	if e.Handle == "" {
		return fmt.Errorf("recording history: empty handle")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saved_searches (handle, query, journal_filter, min_year, share_url, result_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(handle) DO UPDATE SET
			query = excluded.query,
			journal_filter = excluded.journal_filter,
			min_year = excluded.min_year,
			share_url = excluded.share_url,
			result_count = excluded.result_count,
			created_at = excluded.created_at`,
		e.Handle, e.Query, nullString(e.JournalFilter), nullYear(e.MinYear),
		nullString(e.ShareURL), e.ResultCount, e.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", e.Handle, err)
	}
	return nil
}

// List returns the most recent entries first.
func (s *Store) List(ctx context.Context, limit int) ([]types.HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT handle, query, journal_filter, min_year, share_url, result_count, created_at
		 FROM saved_searches ORDER BY created_at DESC, handle LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var out []types.HistoryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return out, nil
}

// Get returns the entry for handle, or ErrNotFound.
func (s *Store) Get(ctx context.Context, handle string) (types.HistoryEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT handle, query, journal_filter, min_year, share_url, result_count, created_at
		 FROM saved_searches WHERE handle = ?`, handle)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.HistoryEntry{}, ErrNotFound
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (types.HistoryEntry, error) {
	var (
		e       types.HistoryEntry
		journal sql.NullString
		year    sql.NullInt64
		share   sql.NullString
		created string
	)
	if err := sc.Scan(&e.Handle, &e.Query, &journal, &year, &share, &e.ResultCount, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("scanning history row: %w", err)
	}
	e.JournalFilter = journal.String
	e.MinYear = int(year.Int64)
	e.ShareURL = share.String
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return e, fmt.Errorf("parsing created_at %q: %w", created, err)
	}
	e.CreatedAt = t
	return e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullYear(y int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(y), Valid: y > 0}
}
