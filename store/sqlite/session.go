package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/session"
)

// Session records are stored as JSON payloads with the ID and user columns
// broken out for lookups. SQLite here is a local or single-node store, so
// there is no need for per-field columns the way the server backend has.

// UpsertSession creates or fully replaces a session record.
func (s *Store) UpsertSession(ctx context.Context, rec *session.Record) error {
	stored := *rec
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("runway/sqlite: marshal session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runway_sessions (session_id, user_id, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET
			user_id = excluded.user_id,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		stored.SessionID.String(),
		stored.UserID.String(),
		string(payload),
		stored.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("runway/sqlite: upsert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session record by ID.
func (s *Store) GetSession(ctx context.Context, sessionID id.SessionID) (*session.Record, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM runway_sessions WHERE session_id = ?`,
		sessionID.String(),
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("runway/sqlite: get session: %w", err)
	}

	rec := new(session.Record)
	if err := json.Unmarshal([]byte(payload), rec); err != nil {
		return nil, fmt.Errorf("runway/sqlite: unmarshal session: %w", err)
	}
	return rec, nil
}

// DeleteSession removes a session record by ID.
func (s *Store) DeleteSession(ctx context.Context, sessionID id.SessionID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM runway_sessions WHERE session_id = ?`,
		sessionID.String(),
	)
	if err != nil {
		return fmt.Errorf("runway/sqlite: delete session: %w", err)
	}
	return nil
}

// ListSessions returns session records matching the given options, most
// recently updated first.
func (s *Store) ListSessions(ctx context.Context, opts session.ListOpts) ([]*session.Record, error) {
	query := `SELECT payload FROM runway_sessions`
	args := []any{}
	if !opts.UserID.IsNil() {
		query += ` WHERE user_id = ?`
		args = append(args, opts.UserID.String())
	}
	query += ` ORDER BY updated_at DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		// SQLite requires LIMIT before OFFSET; -1 means unbounded.
		query += ` LIMIT -1`
	}
	if opts.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("runway/sqlite: list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []*session.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("runway/sqlite: scan session: %w", err)
		}
		rec := new(session.Record)
		if err := json.Unmarshal([]byte(payload), rec); err != nil {
			return nil, fmt.Errorf("runway/sqlite: unmarshal session: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("runway/sqlite: list sessions: %w", err)
	}
	return recs, nil
}
