package bunstore

import (
	"context"
	"fmt"

	"github.com/maisonhq/runway/event"
	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/session"
)

// CreateEvent persists a new published event. A unique index on session_id
// backs publish deduplication: a second insert for the same session fails
// rather than creating a duplicate.
func (s *Store) CreateEvent(ctx context.Context, evt *event.Event) error {
	m := toEventModel(evt)
	_, err := s.db.NewInsert().Model(m).Exec(ctx)
	if err != nil {
		if isDuplicateKey(err) {
			return event.ErrAlreadyPublished
		}
		return fmt.Errorf("runway/bun: create event: %w", err)
	}
	return nil
}

// GetEvent retrieves an event by ID.
func (s *Store) GetEvent(ctx context.Context, eventID id.EventID) (*event.Event, error) {
	m := new(eventModel)
	err := s.db.NewSelect().Model(m).
		Where("id = ?", eventID.String()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("runway/bun: get event: %w", err)
	}
	return fromEventModel(m)
}

// GetEventBySession retrieves the event published from the given session.
func (s *Store) GetEventBySession(ctx context.Context, sessionID id.SessionID) (*event.Event, error) {
	m := new(eventModel)
	err := s.db.NewSelect().Model(m).
		Where("session_id = ?", sessionID.String()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("runway/bun: get event by session: %w", err)
	}
	return fromEventModel(m)
}
