package runway

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maisonhq/runway/event"
	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/middleware"
	"github.com/maisonhq/runway/session"
)

// Option configures a Wizard.
type Option func(*Wizard) error

// Remote is the remote session endpoint consumed by SaveToBackend,
// LoadFromBackend, and PublishEvent. The client package provides the HTTP
// implementation.
type Remote interface {
	// SaveSession upserts the session's stage data at the remote endpoint.
	SaveSession(ctx context.Context, rec *session.Record) error

	// FetchSession retrieves a previously saved session by ID.
	// Returns session.ErrNotFound if the remote has no such session.
	FetchSession(ctx context.Context, sessionID id.SessionID) (*session.Record, error)

	// PublishSession asks the remote to create the event from the
	// accumulated session and returns the created event.
	PublishSession(ctx context.Context, sessionID id.SessionID) (*event.Event, error)
}

// Wizard is the session store for one event-creation flow: a state machine
// over the six wizard stages with weighted progress, local write-through
// snapshots, and best-effort remote sync.
//
// A Wizard guards its session with a mutex so accessors are safe from any
// goroutine, but it is intended to be driven by one logical owner (a UI
// event loop). All mutations are synchronous and atomic; there is no
// partial-update visibility.
type Wizard struct {
	mu     sync.Mutex
	config Config
	logger *slog.Logger
	local  session.SnapshotStore
	remote Remote
	mw     middleware.Middleware
	now    func() time.Time

	sess *session.Session

	// syncs tracks in-flight background remote syncs so Flush can drain
	// them. Responses are applied in arrival order with no version token;
	// with concurrent syncs the last response wins.
	syncs sync.WaitGroup
}

// New creates a new Wizard with the given options.
func New(opts ...Option) (*Wizard, error) {
	w := &Wizard{
		config: DefaultConfig(),
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
		sess:   session.New(),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Logger returns the wizard's logger.
func (w *Wizard) Logger() *slog.Logger { return w.logger }

// Config returns a copy of the wizard's configuration.
func (w *Wizard) Config() Config { return w.config }

// WithConfig replaces the wizard's configuration.
func WithConfig(cfg Config) Option {
	return func(w *Wizard) error {
		w.config = cfg
		return nil
	}
}

// WithLogger sets the structured logger for the wizard.
func WithLogger(l *slog.Logger) Option {
	return func(w *Wizard) error {
		w.logger = l
		return nil
	}
}

// WithLocalStore sets the local durable snapshot store. Without one the
// wizard is memory-only and RestoreLocal returns ErrNoLocalStore.
func WithLocalStore(s session.SnapshotStore) Option {
	return func(w *Wizard) error {
		w.local = s
		return nil
	}
}

// WithRemote sets the remote session endpoint client.
func WithRemote(r Remote) Option {
	return func(w *Wizard) error {
		w.remote = r
		return nil
	}
}

// WithMiddleware attaches mutation middleware. The first middleware in the
// list is the outermost wrapper.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(w *Wizard) error {
		w.mw = middleware.Chain(mws...)
		return nil
	}
}

// WithClock overrides the wizard's time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) error {
		w.now = now
		return nil
	}
}
