package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/maisonhq/runway/event"
	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/session"
)

// CreateEvent persists a new published event. The unique session_id column
// backs publish deduplication.
func (s *Store) CreateEvent(ctx context.Context, evt *event.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("runway/sqlite: marshal event: %w", err)
	}

	var sessionID any
	if !evt.SessionID.IsNil() {
		sessionID = evt.SessionID.String()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runway_events (id, session_id, payload)
		VALUES (?, ?, ?)`,
		evt.ID.String(), sessionID, string(payload),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return event.ErrAlreadyPublished
		}
		return fmt.Errorf("runway/sqlite: create event: %w", err)
	}
	return nil
}

// GetEvent retrieves an event by ID.
func (s *Store) GetEvent(ctx context.Context, eventID id.EventID) (*event.Event, error) {
	return s.eventWhere(ctx, `id = ?`, eventID.String())
}

// GetEventBySession retrieves the event published from the given session.
func (s *Store) GetEventBySession(ctx context.Context, sessionID id.SessionID) (*event.Event, error) {
	return s.eventWhere(ctx, `session_id = ?`, sessionID.String())
}

func (s *Store) eventWhere(ctx context.Context, where string, arg any) (*event.Event, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM runway_events WHERE `+where, arg,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("runway/sqlite: get event: %w", err)
	}

	evt := new(event.Event)
	if err := json.Unmarshal([]byte(payload), evt); err != nil {
		return nil, fmt.Errorf("runway/sqlite: unmarshal event: %w", err)
	}
	return evt, nil
}

// isUniqueViolation matches the modernc driver's constraint errors, which
// surface as plain error strings rather than a typed error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
