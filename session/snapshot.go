package session

import (
	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/stage"
)

// Snapshot is the restricted serialization written to the local durable
// store. It carries only what is safe to trust from a stale local copy:
// identity, navigation position, and the six stage records. Progress,
// publish results, sync timestamps, and errors are derived or
// remote-authoritative and are deliberately excluded.
type Snapshot struct {
	SessionID       id.SessionID  `json:"session_id"`
	CurrentStage    stage.Stage   `json:"current_stage"`
	CompletedStages []stage.Stage `json:"completed_stages"`
	Data            stage.Data    `json:"stage_data"`
}

// Snapshot extracts the restricted local snapshot from the session.
func (s *Session) Snapshot() *Snapshot {
	return &Snapshot{
		SessionID:       s.ID,
		CurrentStage:    s.CurrentStage,
		CompletedStages: append([]stage.Stage(nil), s.CompletedStages...),
		Data:            s.Data.Clone(),
	}
}

// RestoreSnapshot rebuilds a session from a local snapshot. Fields the
// snapshot does not carry come back in their initial state.
func RestoreSnapshot(snap *Snapshot) *Session {
	s := New()
	s.ID = snap.SessionID
	if stage.Valid(snap.CurrentStage) {
		s.CurrentStage = snap.CurrentStage
	}
	s.CompletedStages = append([]stage.Stage(nil), snap.CompletedStages...)
	s.Data = snap.Data.Clone()
	return s
}
