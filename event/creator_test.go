package event_test

import (
	"context"
	"testing"
	"time"

	"github.com/maisonhq/runway/event"
	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/session"
	"github.com/maisonhq/runway/stage"
	"github.com/maisonhq/runway/store/memory"
)

func TestStoreCreator_CreatesFromRecord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := memory.New()
	creator := event.NewStoreCreator(st)

	starts := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)
	rec := &session.Record{
		SessionID:     id.NewSessionID(),
		OrganizerData: &stage.Organizer{Name: "Ava Laurent"},
		EventData:     &stage.Event{Title: "Couture Week Showcase", Kind: "runway_show", StartsAt: &starts},
		VenueData:     &stage.Venue{Name: "Palais Garnier", City: "Paris"},
	}

	evt, err := creator.CreateFromSession(ctx, rec)
	if err != nil {
		t.Fatalf("CreateFromSession failed: %v", err)
	}
	if evt.ID.IsNil() {
		t.Error("event ID is Nil")
	}
	if evt.Title != "Couture Week Showcase" {
		t.Errorf("Title = %q, want from event record", evt.Title)
	}
	if evt.OrganizerName != "Ava Laurent" || evt.VenueName != "Palais Garnier" || evt.City != "Paris" {
		t.Errorf("denormalized fields = %q/%q/%q, want filled from records",
			evt.OrganizerName, evt.VenueName, evt.City)
	}
	if evt.StartsAt == nil || !evt.StartsAt.Equal(starts) {
		t.Errorf("StartsAt = %v, want %v", evt.StartsAt, starts)
	}
	if evt.Status != event.StatusPublished {
		t.Errorf("Status = %q, want published", evt.Status)
	}

	stored, err := st.GetEvent(ctx, evt.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if stored.SessionID.String() != rec.SessionID.String() {
		t.Errorf("stored SessionID = %s, want %s", stored.SessionID, rec.SessionID)
	}
}

func TestStoreCreator_DeduplicatesBySession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	creator := event.NewStoreCreator(memory.New())

	rec := &session.Record{
		SessionID: id.NewSessionID(),
		EventData: &stage.Event{Title: "Gala"},
	}

	first, err := creator.CreateFromSession(ctx, rec)
	if err != nil {
		t.Fatalf("first CreateFromSession failed: %v", err)
	}
	second, err := creator.CreateFromSession(ctx, rec)
	if err != nil {
		t.Fatalf("second CreateFromSession failed: %v", err)
	}
	if second.ID.String() != first.ID.String() {
		t.Errorf("repeated publish created a new event: %s vs %s", second.ID, first.ID)
	}
}

// racingStore simulates a concurrent publish winning the insert between
// the creator's lookup and its create.
type racingStore struct {
	winner  *event.Event
	lookups int
}

func (r *racingStore) CreateEvent(context.Context, *event.Event) error {
	return event.ErrAlreadyPublished
}

func (r *racingStore) GetEvent(context.Context, id.EventID) (*event.Event, error) {
	return nil, session.ErrNotFound
}

func (r *racingStore) GetEventBySession(context.Context, id.SessionID) (*event.Event, error) {
	r.lookups++
	if r.lookups == 1 {
		// First lookup: the winner has not landed yet.
		return nil, session.ErrNotFound
	}
	return r.winner, nil
}

func TestStoreCreator_LostInsertRaceReturnsWinner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sessionID := id.NewSessionID()
	winner := &event.Event{
		ID:        id.NewEventID(),
		SessionID: sessionID,
		Title:     "Gala",
		Status:    event.StatusPublished,
	}
	creator := event.NewStoreCreator(&racingStore{winner: winner})

	got, err := creator.CreateFromSession(ctx, &session.Record{SessionID: sessionID})
	if err != nil {
		t.Fatalf("CreateFromSession failed: %v", err)
	}
	if got.ID.String() != winner.ID.String() {
		t.Errorf("lost insert race returned %s, want the winner %s", got.ID, winner.ID)
	}
}

func TestFromRecord_TitleFallback(t *testing.T) {
	t.Parallel()

	evt := event.FromRecord(&session.Record{SessionID: id.NewSessionID()})
	if evt.Title != "Untitled event" {
		t.Errorf("Title = %q, want fallback for a session with no event title", evt.Title)
	}

	evt = event.FromRecord(&session.Record{
		SessionID: id.NewSessionID(),
		EventData: &stage.Event{Kind: "popup"},
	})
	if evt.Title != "Untitled event" {
		t.Errorf("Title = %q, want fallback when title empty", evt.Title)
	}
	if evt.Kind != "popup" {
		t.Errorf("Kind = %q, want carried over", evt.Kind)
	}
}
