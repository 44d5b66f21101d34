// Package store defines the aggregate persistence interface for the server
// side of the wizard. The session and event subsystems each define their
// own store interface; the composite Store composes them. Backends:
// Postgres (Bun), SQLite, Redis, and Memory.
package store

import (
	"context"

	"github.com/maisonhq/runway/event"
	"github.com/maisonhq/runway/session"
)

// Store is the aggregate persistence interface. A single backend
// implements both subsystem stores.
type Store interface {
	session.Store
	event.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
