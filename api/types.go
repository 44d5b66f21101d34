package api

import (
	"github.com/maisonhq/runway/event"
	"github.com/maisonhq/runway/stage"
)

// MutateSessionRequest is the envelope for the session mutation route.
// Op selects the operation: "update_stage_data" or "publish".
type MutateSessionRequest struct {
	Op        string      `json:"op"`
	SessionID string      `json:"sessionId"`
	Data      *StagePatch `json:"data,omitempty"`
}

// StagePatch carries the stage being edited plus the full accumulated
// stage-data set.
type StagePatch struct {
	Stage     string    `json:"stage"`
	StageData StageData `json:"stageData"`
}

// StageData holds the six per-stage records. Unset stages are omitted.
type StageData struct {
	Organizer *stage.Organizer `json:"organizer,omitempty"`
	Event     *stage.Event     `json:"event,omitempty"`
	Venue     *stage.Venue     `json:"venue,omitempty"`
	Ticket    *stage.Ticket    `json:"ticket,omitempty"`
	Sponsor   *stage.Sponsor   `json:"sponsor,omitempty"`
	Review    *stage.Review    `json:"review,omitempty"`
}

// MutateSessionResponse acknowledges a mutation. Event is set only for
// publish operations.
type MutateSessionResponse struct {
	Status string       `json:"status"`
	Event  *event.Event `json:"event,omitempty"`
}

// ListSessionsRequest filters and pages the session list route.
type ListSessionsRequest struct {
	Limit  int    `json:"limit" query:"limit"`
	Offset int    `json:"offset" query:"offset"`
	UserID string `json:"userId" query:"userId"`
}

// GetSessionRequest is the (path-only) request for the fetch route.
type GetSessionRequest struct{}

// defaultLimit caps unbounded list requests.
func defaultLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}
