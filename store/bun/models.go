package bunstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/maisonhq/runway/event"
	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/session"
	"github.com/maisonhq/runway/stage"
)

// ── Session model ─────────────────────────────────────────────────

type sessionModel struct {
	bun.BaseModel `bun:"table:runway_sessions"`

	SessionID        string    `bun:"session_id,pk"`
	UserID           string    `bun:"user_id"`
	OrgID            string    `bun:"organization_id"`
	CurrentStage     string    `bun:"current_stage,notnull"`
	CompletedStages  []byte    `bun:"completed_stages,type:jsonb"`
	OrganizerData    []byte    `bun:"organizer_data,type:jsonb"`
	EventData        []byte    `bun:"event_data,type:jsonb"`
	VenueData        []byte    `bun:"venue_data,type:jsonb"`
	TicketData       []byte    `bun:"ticket_data,type:jsonb"`
	SponsorData      []byte    `bun:"sponsor_data,type:jsonb"`
	ReviewData       []byte    `bun:"review_data,type:jsonb"`
	CompletionDetail []byte    `bun:"completion_details,type:jsonb"`
	CompletionPct    int       `bun:"completion_percentage,notnull,default:0"`
	PublishedEventID string    `bun:"published_event_id"`
	UpdatedAt        time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

func toSessionModel(rec *session.Record) (*sessionModel, error) {
	m := &sessionModel{
		SessionID:        rec.SessionID.String(),
		UserID:           rec.UserID.String(),
		OrgID:            rec.OrgID.String(),
		CurrentStage:     string(rec.CurrentStage),
		CompletionPct:    rec.CompletionPct,
		PublishedEventID: rec.PublishedEventID.String(),
		UpdatedAt:        rec.UpdatedAt,
	}

	var err error
	if m.CompletedStages, err = json.Marshal(rec.CompletedStages); err != nil {
		return nil, fmt.Errorf("marshal completed_stages: %w", err)
	}
	if m.CompletionDetail, err = json.Marshal(rec.CompletionDetail); err != nil {
		return nil, fmt.Errorf("marshal completion_details: %w", err)
	}
	if m.OrganizerData, err = marshalNullable(rec.OrganizerData); err != nil {
		return nil, err
	}
	if m.EventData, err = marshalNullable(rec.EventData); err != nil {
		return nil, err
	}
	if m.VenueData, err = marshalNullable(rec.VenueData); err != nil {
		return nil, err
	}
	if m.TicketData, err = marshalNullable(rec.TicketData); err != nil {
		return nil, err
	}
	if m.SponsorData, err = marshalNullable(rec.SponsorData); err != nil {
		return nil, err
	}
	if m.ReviewData, err = marshalNullable(rec.ReviewData); err != nil {
		return nil, err
	}
	return m, nil
}

func fromSessionModel(m *sessionModel) (*session.Record, error) {
	rec := &session.Record{
		CurrentStage:  stage.Stage(m.CurrentStage),
		CompletionPct: m.CompletionPct,
		UpdatedAt:     m.UpdatedAt,
	}

	var err error
	if rec.SessionID, err = id.Parse(m.SessionID); err != nil {
		return nil, fmt.Errorf("parse session_id: %w", err)
	}
	if m.UserID != "" {
		if rec.UserID, err = id.Parse(m.UserID); err != nil {
			return nil, fmt.Errorf("parse user_id: %w", err)
		}
	}
	if m.OrgID != "" {
		if rec.OrgID, err = id.Parse(m.OrgID); err != nil {
			return nil, fmt.Errorf("parse organization_id: %w", err)
		}
	}
	if m.PublishedEventID != "" {
		if rec.PublishedEventID, err = id.Parse(m.PublishedEventID); err != nil {
			return nil, fmt.Errorf("parse published_event_id: %w", err)
		}
	}

	if len(m.CompletedStages) > 0 {
		if err := json.Unmarshal(m.CompletedStages, &rec.CompletedStages); err != nil {
			return nil, fmt.Errorf("unmarshal completed_stages: %w", err)
		}
	}
	if len(m.CompletionDetail) > 0 {
		if err := json.Unmarshal(m.CompletionDetail, &rec.CompletionDetail); err != nil {
			return nil, fmt.Errorf("unmarshal completion_details: %w", err)
		}
	}
	if err := unmarshalNullable(m.OrganizerData, &rec.OrganizerData); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(m.EventData, &rec.EventData); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(m.VenueData, &rec.VenueData); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(m.TicketData, &rec.TicketData); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(m.SponsorData, &rec.SponsorData); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(m.ReviewData, &rec.ReviewData); err != nil {
		return nil, err
	}
	return rec, nil
}

// marshalNullable encodes a stage record pointer, keeping nil as NULL.
func marshalNullable[T any](p *T) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal stage data: %w", err)
	}
	return data, nil
}

// unmarshalNullable decodes into a pointer-to-pointer target, leaving nil
// columns as nil records.
func unmarshalNullable[T any](data []byte, target **T) error {
	if len(data) == 0 {
		return nil
	}
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal stage data: %w", err)
	}
	*target = out
	return nil
}

// ── Event model ───────────────────────────────────────────────────

type eventModel struct {
	bun.BaseModel `bun:"table:runway_events"`

	ID            string     `bun:"id,pk"`
	SessionID     string     `bun:"session_id"`
	Title         string     `bun:"title,notnull"`
	Kind          string     `bun:"kind"`
	OrganizerName string     `bun:"organizer_name"`
	VenueName     string     `bun:"venue_name"`
	City          string     `bun:"city"`
	StartsAt      *time.Time `bun:"starts_at"`
	Status        string     `bun:"status,notnull,default:'draft'"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp"`
}

func toEventModel(evt *event.Event) *eventModel {
	return &eventModel{
		ID:            evt.ID.String(),
		SessionID:     evt.SessionID.String(),
		Title:         evt.Title,
		Kind:          evt.Kind,
		OrganizerName: evt.OrganizerName,
		VenueName:     evt.VenueName,
		City:          evt.City,
		StartsAt:      evt.StartsAt,
		Status:        string(evt.Status),
		CreatedAt:     evt.CreatedAt,
	}
}

func fromEventModel(m *eventModel) (*event.Event, error) {
	evt := &event.Event{
		Title:         m.Title,
		Kind:          m.Kind,
		OrganizerName: m.OrganizerName,
		VenueName:     m.VenueName,
		City:          m.City,
		StartsAt:      m.StartsAt,
		Status:        event.Status(m.Status),
		CreatedAt:     m.CreatedAt,
	}

	var err error
	if evt.ID, err = id.Parse(m.ID); err != nil {
		return nil, fmt.Errorf("parse event id: %w", err)
	}
	if m.SessionID != "" {
		if evt.SessionID, err = id.Parse(m.SessionID); err != nil {
			return nil, fmt.Errorf("parse event session_id: %w", err)
		}
	}
	return evt, nil
}
