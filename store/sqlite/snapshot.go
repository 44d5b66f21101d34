package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/maisonhq/runway/session"
)

// The snapshot table is a single fixed slot, mirroring the browser-storage
// channel the wizard originally persisted to: whatever was written last is
// the snapshot, and clearing empties the slot.

// WriteSnapshot persists the snapshot, replacing any previous one.
func (s *Store) WriteSnapshot(ctx context.Context, snap *session.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("runway/sqlite: marshal snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runway_snapshot (slot, payload) VALUES (1, ?)
		ON CONFLICT (slot) DO UPDATE SET payload = excluded.payload`,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("runway/sqlite: write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot returns the stored snapshot, or session.ErrNotFound if the
// slot is empty.
func (s *Store) ReadSnapshot(ctx context.Context) (*session.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM runway_snapshot WHERE slot = 1`,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("runway/sqlite: read snapshot: %w", err)
	}

	snap := new(session.Snapshot)
	if err := json.Unmarshal([]byte(payload), snap); err != nil {
		return nil, fmt.Errorf("runway/sqlite: unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// ClearSnapshot empties the slot.
func (s *Store) ClearSnapshot(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM runway_snapshot WHERE slot = 1`)
	if err != nil {
		return fmt.Errorf("runway/sqlite: clear snapshot: %w", err)
	}
	return nil
}
