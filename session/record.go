package session

import (
	"time"

	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/stage"
)

// Record is the server-side representation of a wizard session, the shape
// stored by the backends and returned by the fetch endpoint. Unlike the
// local Snapshot it is authoritative for progress and publish state.
type Record struct {
	SessionID        id.SessionID        `json:"session_id"`
	UserID           id.UserID           `json:"user_id,omitempty"`
	OrgID            id.OrgID            `json:"organization_id,omitempty"`
	CurrentStage     stage.Stage         `json:"current_stage"`
	CompletedStages  []stage.Stage       `json:"completed_stages"`
	OrganizerData    *stage.Organizer    `json:"organizer_data,omitempty"`
	EventData        *stage.Event        `json:"event_data,omitempty"`
	VenueData        *stage.Venue        `json:"venue_data,omitempty"`
	TicketData       *stage.Ticket       `json:"ticket_data,omitempty"`
	SponsorData      *stage.Sponsor      `json:"sponsor_data,omitempty"`
	ReviewData       *stage.Review       `json:"review_data,omitempty"`
	CompletionDetail map[stage.Stage]int `json:"completion_details,omitempty"`
	CompletionPct    int                 `json:"completion_percentage"`
	PublishedEventID id.EventID          `json:"published_event_id,omitempty"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// ToRecord converts the session to its server-side representation.
func (s *Session) ToRecord(now time.Time) *Record {
	data := s.Data.Clone()
	detail := make(map[stage.Stage]int, len(s.Progress))
	for k, v := range s.Progress {
		detail[k] = v
	}

	return &Record{
		SessionID:        s.ID,
		UserID:           s.UserID,
		OrgID:            s.OrgID,
		CurrentStage:     s.CurrentStage,
		CompletedStages:  append([]stage.Stage(nil), s.CompletedStages...),
		OrganizerData:    data.Organizer,
		EventData:        data.Event,
		VenueData:        data.Venue,
		TicketData:       data.Ticket,
		SponsorData:      data.Sponsor,
		ReviewData:       data.Review,
		CompletionDetail: detail,
		CompletionPct:    s.OverallProgress,
		PublishedEventID: s.PublishedEventID,
		UpdatedAt:        now,
	}
}

// ToSession rebuilds a full in-memory session from the server record.
// This is the remote-load path: identity, navigation, all six records,
// and progress are replaced wholesale from the server's view.
func (r *Record) ToSession() *Session {
	s := New()
	s.ID = r.SessionID
	s.UserID = r.UserID
	s.OrgID = r.OrgID
	if stage.Valid(r.CurrentStage) {
		s.CurrentStage = r.CurrentStage
	}
	s.CompletedStages = append([]stage.Stage(nil), r.CompletedStages...)
	s.Data = stage.Data{
		Organizer: r.OrganizerData,
		Event:     r.EventData,
		Venue:     r.VenueData,
		Ticket:    r.TicketData,
		Sponsor:   r.SponsorData,
		Review:    r.ReviewData,
	}.Clone()
	for k, v := range r.CompletionDetail {
		if stage.Valid(k) {
			s.Progress[k] = stage.Clamp(v)
		}
	}
	s.OverallProgress = stage.OverallProgress(s.Progress)
	s.PublishedEventID = r.PublishedEventID
	return s
}
