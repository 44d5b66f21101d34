package runway

import (
	"errors"

	"github.com/maisonhq/runway/session"
)

var (
	// Configuration errors.
	ErrNoRemote     = errors.New("runway: no remote configured")
	ErrNoLocalStore = errors.New("runway: no local snapshot store configured")

	// Session errors.
	ErrNoSession = errors.New("runway: no active session")

	// Navigation guard errors.
	ErrCannotSkipAhead = errors.New("runway: cannot skip ahead")
	ErrUnknownStage    = errors.New("runway: unknown stage")
)

// ErrSessionNotFound is returned when a session cannot be found in a store
// or at the remote endpoint.
var ErrSessionNotFound = session.ErrNotFound
