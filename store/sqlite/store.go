// Package sqlite is a SQLite implementation of the session, event, and
// snapshot store contracts using the pure-Go modernc driver. It doubles as
// the durable local snapshot channel for single-process deployments: the
// wizard can point its local store at the same file it syncs from.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/maisonhq/runway/event"
	"github.com/maisonhq/runway/session"
)

// Ensure Store implements the subsystem interfaces at compile time.
var (
	_ session.Store         = (*Store)(nil)
	_ session.SnapshotStore = (*Store)(nil)
	_ event.Store           = (*Store)(nil)
)

// Store is a SQLite implementation of the store contracts.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	// ownsDB is set when the store opened the database itself and is
	// therefore responsible for closing it.
	ownsDB bool
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a SQLite store over an existing database handle. The caller
// owns the *sql.DB lifecycle; Close() will not touch it.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:     db,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens (or creates) a SQLite database at path and returns a store
// that owns the handle. Use ":memory:" for an ephemeral store.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("runway/sqlite: open %s: %w", path, err)
	}
	// The modernc driver is not safe for concurrent writers on one
	// connection pool; a single connection serializes access.
	db.SetMaxOpenConns(1)

	s := New(db, opts...)
	s.ownsDB = true
	return s, nil
}

// DB returns the underlying *sql.DB for advanced usage.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runway_sessions (
			session_id TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL DEFAULT '',
			payload    TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runway_sessions_user
			ON runway_sessions (user_id, updated_at DESC)`,
		`CREATE TABLE IF NOT EXISTS runway_events (
			id         TEXT PRIMARY KEY,
			session_id TEXT UNIQUE,
			payload    TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runway_snapshot (
			slot    INTEGER PRIMARY KEY CHECK (slot = 1),
			payload TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("runway/sqlite: migrate: %w", err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle if this store opened it.
func (s *Store) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}
