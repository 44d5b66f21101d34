package session

import (
	"context"
	"errors"

	"github.com/maisonhq/runway/id"
)

// ErrNotFound is returned by stores when no session exists for the
// requested ID.
var ErrNotFound = errors.New("session: not found")

// ListOpts controls pagination and filtering for session list queries.
type ListOpts struct {
	// Limit is the maximum number of records to return. Zero means no limit.
	Limit int
	// Offset is the number of records to skip.
	Offset int
	// UserID filters to one user's sessions. Nil means all users.
	UserID id.UserID
}

// Store defines the server-side persistence contract for wizard sessions.
type Store interface {
	// UpsertSession creates or fully replaces a session record.
	UpsertSession(ctx context.Context, rec *Record) error

	// GetSession retrieves a session record by ID.
	// Returns ErrNotFound if the session does not exist.
	GetSession(ctx context.Context, sessionID id.SessionID) (*Record, error)

	// DeleteSession removes a session record by ID.
	DeleteSession(ctx context.Context, sessionID id.SessionID) error

	// ListSessions returns session records matching the given options,
	// most recently updated first.
	ListSessions(ctx context.Context, opts ListOpts) ([]*Record, error)
}

// SnapshotStore is the local durable snapshot channel: a single slot under
// a fixed namespace that survives application restarts. Writes are
// best-effort; the engine logs failures and carries on.
type SnapshotStore interface {
	// WriteSnapshot persists the snapshot, replacing any previous one.
	WriteSnapshot(ctx context.Context, snap *Snapshot) error

	// ReadSnapshot returns the stored snapshot, or ErrNotFound if the
	// slot is empty.
	ReadSnapshot(ctx context.Context) (*Snapshot, error)

	// ClearSnapshot empties the slot.
	ClearSnapshot(ctx context.Context) error
}
