// Package event defines the published-event record produced by the wizard's
// publish transition, the collaborator contract that creates it, and a
// store-backed implementation of that contract.
package event

import (
	"errors"
	"time"

	"github.com/maisonhq/runway/id"
)

// ErrAlreadyPublished is returned by stores when an event already exists
// for the session being published.
var ErrAlreadyPublished = errors.New("event: already published for session")

// Status is the lifecycle state of a published event.
type Status string

const (
	// StatusDraft means the event exists but is not publicly visible.
	StatusDraft Status = "draft"
	// StatusPublished means the event is live.
	StatusPublished Status = "published"
)

// Event is the event record created when a wizard session is published.
type Event struct {
	ID            id.EventID   `json:"id"`
	SessionID     id.SessionID `json:"session_id,omitempty"`
	Title         string       `json:"title"`
	Kind          string       `json:"kind,omitempty"`
	OrganizerName string       `json:"organizer_name,omitempty"`
	VenueName     string       `json:"venue_name,omitempty"`
	City          string       `json:"city,omitempty"`
	StartsAt      *time.Time   `json:"starts_at,omitempty"`
	Status        Status       `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
}
