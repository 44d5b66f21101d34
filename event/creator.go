package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/session"
)

// Creator is the event-creation collaborator invoked when a session is
// published. The wizard treats publish as retryable, so implementations
// should deduplicate repeated publishes of the same session — the wizard
// cannot guarantee idempotency itself.
type Creator interface {
	// CreateFromSession turns an accumulated session into a live event
	// and returns the created (or previously created) record.
	CreateFromSession(ctx context.Context, rec *session.Record) (*Event, error)
}

// Store defines the persistence contract for published events.
type Store interface {
	// CreateEvent persists a new event.
	CreateEvent(ctx context.Context, evt *Event) error

	// GetEvent retrieves an event by ID.
	// Returns session.ErrNotFound if the event does not exist.
	GetEvent(ctx context.Context, eventID id.EventID) (*Event, error)

	// GetEventBySession retrieves the event published from the given
	// session, if any. Returns session.ErrNotFound otherwise.
	GetEventBySession(ctx context.Context, sessionID id.SessionID) (*Event, error)
}

// StoreCreator implements Creator over an event Store. Repeated publishes
// of the same session return the original event instead of creating a
// duplicate.
type StoreCreator struct {
	store Store
}

// NewStoreCreator creates a store-backed event creator.
func NewStoreCreator(store Store) *StoreCreator {
	return &StoreCreator{store: store}
}

// CreateFromSession implements Creator.
func (c *StoreCreator) CreateFromSession(ctx context.Context, rec *session.Record) (*Event, error) {
	existing, err := c.store.GetEventBySession(ctx, rec.SessionID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, session.ErrNotFound) {
		return nil, fmt.Errorf("event: lookup by session: %w", err)
	}

	evt := FromRecord(rec)
	if err := c.store.CreateEvent(ctx, evt); err != nil {
		// A concurrent publish can win the insert. Return its event.
		if errors.Is(err, ErrAlreadyPublished) {
			return c.store.GetEventBySession(ctx, rec.SessionID)
		}
		return nil, fmt.Errorf("event: create: %w", err)
	}
	return evt, nil
}

// FromRecord builds a published event from a session record. Missing
// optional fields stay empty; a session with no event title publishes as
// "Untitled event".
func FromRecord(rec *session.Record) *Event {
	evt := &Event{
		ID:        id.NewEventID(),
		SessionID: rec.SessionID,
		Title:     "Untitled event",
		Status:    StatusPublished,
		CreatedAt: time.Now().UTC(),
	}
	if rec.EventData != nil {
		if rec.EventData.Title != "" {
			evt.Title = rec.EventData.Title
		}
		evt.Kind = rec.EventData.Kind
		if rec.EventData.StartsAt != nil {
			t := *rec.EventData.StartsAt
			evt.StartsAt = &t
		}
	}
	if rec.OrganizerData != nil {
		evt.OrganizerName = rec.OrganizerData.Name
	}
	if rec.VenueData != nil {
		evt.VenueName = rec.VenueData.Name
		evt.City = rec.VenueData.City
	}
	return evt
}
