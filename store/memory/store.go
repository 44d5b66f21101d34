// Package memory provides a fully in-memory store backend. Safe for
// concurrent access. Intended for unit testing and development; it also
// serves as the non-durable local snapshot slot.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/maisonhq/runway/event"
	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/session"
	"github.com/maisonhq/runway/stage"
)

// Ensure Store implements every persistence contract at compile time.
var (
	_ session.Store         = (*Store)(nil)
	_ session.SnapshotStore = (*Store)(nil)
	_ event.Store           = (*Store)(nil)
)

// Store is a fully in-memory implementation of the session, event, and
// snapshot store contracts.
type Store struct {
	mu sync.RWMutex

	sessions map[string]*session.Record
	events   map[string]*event.Event
	// bySession maps session ID → published event ID for dedup lookups.
	bySession map[string]string

	// snapshot is the single local snapshot slot.
	snapshot *session.Snapshot
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		sessions:  make(map[string]*session.Record),
		events:    make(map[string]*event.Event),
		bySession: make(map[string]string),
	}
}

// ──────────────────────────────────────────────────
// Lifecycle — Migrate / Ping / Close
// ──────────────────────────────────────────────────

// Migrate is a no-op for the memory store.
func (m *Store) Migrate(_ context.Context) error { return nil }

// Ping always succeeds for the memory store.
func (m *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (m *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Session Store
// ──────────────────────────────────────────────────

// UpsertSession creates or fully replaces a session record.
func (m *Store) UpsertSession(_ context.Context, rec *session.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[rec.SessionID.String()] = cloneRecord(rec)
	return nil
}

// GetSession retrieves a session record by ID.
func (m *Store) GetSession(_ context.Context, sessionID id.SessionID) (*session.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.sessions[sessionID.String()]
	if !ok {
		return nil, session.ErrNotFound
	}
	return cloneRecord(rec), nil
}

// DeleteSession removes a session record by ID.
func (m *Store) DeleteSession(_ context.Context, sessionID id.SessionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID.String())
	return nil
}

// ListSessions returns session records most recently updated first.
func (m *Store) ListSessions(_ context.Context, opts session.ListOpts) ([]*session.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*session.Record, 0, len(m.sessions))
	for _, rec := range m.sessions {
		if !opts.UserID.IsNil() && rec.UserID.String() != opts.UserID.String() {
			continue
		}
		out = append(out, cloneRecord(rec))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})

	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// ──────────────────────────────────────────────────
// Event Store
// ──────────────────────────────────────────────────

// CreateEvent persists a new event. A session publishes at most once;
// a second create for the same session returns event.ErrAlreadyPublished.
func (m *Store) CreateEvent(_ context.Context, evt *event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !evt.SessionID.IsNil() {
		if _, ok := m.bySession[evt.SessionID.String()]; ok {
			return event.ErrAlreadyPublished
		}
		m.bySession[evt.SessionID.String()] = evt.ID.String()
	}
	cp := *evt
	m.events[evt.ID.String()] = &cp
	return nil
}

// GetEvent retrieves an event by ID.
func (m *Store) GetEvent(_ context.Context, eventID id.EventID) (*event.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	evt, ok := m.events[eventID.String()]
	if !ok {
		return nil, session.ErrNotFound
	}
	cp := *evt
	return &cp, nil
}

// GetEventBySession retrieves the event published from the given session.
func (m *Store) GetEventBySession(_ context.Context, sessionID id.SessionID) (*event.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	eventID, ok := m.bySession[sessionID.String()]
	if !ok {
		return nil, session.ErrNotFound
	}
	evt, ok := m.events[eventID]
	if !ok {
		return nil, session.ErrNotFound
	}
	cp := *evt
	return &cp, nil
}

// ──────────────────────────────────────────────────
// Snapshot Store (local slot)
// ──────────────────────────────────────────────────

// WriteSnapshot replaces the snapshot slot.
func (m *Store) WriteSnapshot(_ context.Context, snap *session.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot = cloneSnapshot(snap)
	return nil
}

// ReadSnapshot returns the stored snapshot, or session.ErrNotFound.
func (m *Store) ReadSnapshot(_ context.Context) (*session.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snapshot == nil {
		return nil, session.ErrNotFound
	}
	return cloneSnapshot(m.snapshot), nil
}

// ClearSnapshot empties the slot.
func (m *Store) ClearSnapshot(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot = nil
	return nil
}

// ──────────────────────────────────────────────────
// Copy helpers — records handed out never alias stored state
// ──────────────────────────────────────────────────

func cloneRecord(rec *session.Record) *session.Record {
	cp := *rec
	cp.CompletedStages = append([]stage.Stage(nil), rec.CompletedStages...)

	data := stage.Data{
		Organizer: rec.OrganizerData,
		Event:     rec.EventData,
		Venue:     rec.VenueData,
		Ticket:    rec.TicketData,
		Sponsor:   rec.SponsorData,
		Review:    rec.ReviewData,
	}.Clone()
	cp.OrganizerData = data.Organizer
	cp.EventData = data.Event
	cp.VenueData = data.Venue
	cp.TicketData = data.Ticket
	cp.SponsorData = data.Sponsor
	cp.ReviewData = data.Review

	cp.CompletionDetail = make(map[stage.Stage]int, len(rec.CompletionDetail))
	for k, v := range rec.CompletionDetail {
		cp.CompletionDetail[k] = v
	}
	return &cp
}

func cloneSnapshot(snap *session.Snapshot) *session.Snapshot {
	return &session.Snapshot{
		SessionID:       snap.SessionID,
		CurrentStage:    snap.CurrentStage,
		CompletedStages: append([]stage.Stage(nil), snap.CompletedStages...),
		Data:            snap.Data.Clone(),
	}
}
