package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/maisonhq/runway/session"
	"github.com/maisonhq/runway/stage"
)

// HistoryEntry is one recorded mutation: the operation name, the
// navigation position and overall progress after it ran, and the error if
// it failed.
type HistoryEntry struct {
	Op      string
	Stage   stage.Stage
	Overall int
	Error   string
	At      time.Time
}

// Recorder keeps a bounded in-memory history of session mutations. It is
// the devtools replacement for framework store middleware: attach it with
// Middleware() and inspect past transitions with Entries().
type Recorder struct {
	mu      sync.Mutex
	max     int
	entries []HistoryEntry
}

// NewRecorder creates a Recorder that retains at most maxEntries entries,
// evicting the oldest first. maxEntries <= 0 means retain 100.
func NewRecorder(maxEntries int) *Recorder {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &Recorder{max: maxEntries}
}

// Middleware returns the recording middleware.
func (r *Recorder) Middleware() Middleware {
	return func(ctx context.Context, op string, sess *session.Session, next Handler) error {
		err := next(ctx)

		entry := HistoryEntry{
			Op:      op,
			Stage:   sess.CurrentStage,
			Overall: sess.OverallProgress,
			At:      time.Now().UTC(),
		}
		if err != nil {
			entry.Error = err.Error()
		}

		r.mu.Lock()
		r.entries = append(r.entries, entry)
		if len(r.entries) > r.max {
			r.entries = r.entries[len(r.entries)-r.max:]
		}
		r.mu.Unlock()

		return err
	}
}

// Entries returns a copy of the recorded history, oldest first.
func (r *Recorder) Entries() []HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]HistoryEntry(nil), r.entries...)
}

// Reset clears the recorded history.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}
