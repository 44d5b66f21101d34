// Package session defines the wizard session aggregate, the serialized
// snapshots exchanged with persistence, and the store contracts implemented
// by the backends under store/.
package session

import (
	"time"

	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/stage"
)

// Session is the aggregate root of one event-creation wizard flow.
// It is owned exclusively by the engine; stores only ever see copies.
type Session struct {
	// ID is assigned once when the session is initialized and immutable
	// thereafter. A Nil ID means no active session.
	ID     id.SessionID `json:"id"`
	UserID id.UserID    `json:"user_id,omitempty"`
	OrgID  id.OrgID     `json:"org_id,omitempty"`

	// CurrentStage is the stage being edited. Always a registry member;
	// starts at stage.First().
	CurrentStage stage.Stage `json:"current_stage"`

	// CompletedStages records stages the user advanced past, in completion
	// order. A stage enters this list only via forward navigation.
	CompletedStages []stage.Stage `json:"completed_stages"`

	// Data holds the six partial per-stage records.
	Data stage.Data `json:"data"`

	// Progress holds caller-reported per-stage completion (0–100).
	Progress map[stage.Stage]int `json:"progress"`

	// OverallProgress is derived from Progress via stage.OverallProgress.
	// Never set directly.
	OverallProgress int `json:"overall_progress"`

	// PublishedEventID is set exactly once, by a successful publish.
	PublishedEventID id.EventID `json:"published_event_id,omitempty"`

	// LastSavedAt is the time of the last successful remote sync.
	LastSavedAt *time.Time `json:"last_saved_at,omitempty"`

	// PendingError holds the last failure description. Cleared by the next
	// successful state-touching operation.
	PendingError string `json:"pending_error,omitempty"`
}

// New returns a session in the documented initial state: first stage
// current, nothing completed, no data, zero progress.
func New() *Session {
	return &Session{
		CurrentStage: stage.First(),
		Progress:     make(map[stage.Stage]int),
	}
}

// Active reports whether the session has been initialized.
func (s *Session) Active() bool { return !s.ID.IsNil() }

// Completed reports whether st has been advanced past.
func (s *Session) Completed(st stage.Stage) bool {
	for _, c := range s.CompletedStages {
		if c == st {
			return true
		}
	}
	return false
}

// MarkCompleted appends st to the completed list if not already present.
func (s *Session) MarkCompleted(st stage.Stage) {
	if !s.Completed(st) {
		s.CompletedStages = append(s.CompletedStages, st)
	}
}

// Clone returns a deep copy safe to hand outside the engine's lock.
func (s *Session) Clone() *Session {
	cp := *s
	cp.CompletedStages = append([]stage.Stage(nil), s.CompletedStages...)
	cp.Data = s.Data.Clone()
	cp.Progress = make(map[stage.Stage]int, len(s.Progress))
	for k, v := range s.Progress {
		cp.Progress[k] = v
	}
	if s.LastSavedAt != nil {
		t := *s.LastSavedAt
		cp.LastSavedAt = &t
	}
	return &cp
}
