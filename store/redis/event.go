package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/maisonhq/runway/event"
	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/session"
)

// CreateEvent stores the event as JSON and claims the session → event
// mapping. The mapping is claimed with SetNX so concurrent publishes of one
// session resolve to a single event; losers get event.ErrAlreadyPublished
// and the orphaned event key is removed.
func (s *Store) CreateEvent(ctx context.Context, evt *event.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("runway/redis: marshal event: %w", err)
	}

	// Store the event first so the mapping only ever points at an
	// existing record.
	if err := s.client.Set(ctx, eventKey(evt.ID.String()), payload, 0).Err(); err != nil {
		return fmt.Errorf("runway/redis: create event: %w", err)
	}

	if !evt.SessionID.IsNil() {
		ok, err := s.client.SetNX(ctx, eventBySessionKey(evt.SessionID.String()), evt.ID.String(), 0).Result()
		if err != nil {
			return fmt.Errorf("runway/redis: claim session event: %w", err)
		}
		if !ok {
			s.client.Del(ctx, eventKey(evt.ID.String()))
			return event.ErrAlreadyPublished
		}
	}
	return nil
}

// GetEvent retrieves an event by ID.
func (s *Store) GetEvent(ctx context.Context, eventID id.EventID) (*event.Event, error) {
	payload, err := s.client.Get(ctx, eventKey(eventID.String())).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("runway/redis: get event: %w", err)
	}

	var evt event.Event
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		return nil, fmt.Errorf("runway/redis: unmarshal event: %w", err)
	}
	return &evt, nil
}

// GetEventBySession retrieves the event published from the given session.
func (s *Store) GetEventBySession(ctx context.Context, sessionID id.SessionID) (*event.Event, error) {
	eID, err := s.client.Get(ctx, eventBySessionKey(sessionID.String())).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("runway/redis: get event by session: %w", err)
	}

	parsed, err := id.ParseEventID(eID)
	if err != nil {
		return nil, fmt.Errorf("runway/redis: bad event id in index: %w", err)
	}
	return s.GetEvent(ctx, parsed)
}
