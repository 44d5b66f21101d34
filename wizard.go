package runway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/session"
	"github.com/maisonhq/runway/stage"
)

// ──────────────────────────────────────────────────
// Mutations
// ──────────────────────────────────────────────────

// InitSession discards any prior in-memory session and starts a fresh one:
// first stage current, nothing completed, no data, zero progress, no error.
// Calling it twice with the same IDs fully resets either way. A Nil
// sessionID generates a new one.
func (w *Wizard) InitSession(ctx context.Context, sessionID id.SessionID, userID id.UserID, orgID id.OrgID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.mutate(ctx, "init_session", func(ctx context.Context) error {
		if sessionID.IsNil() {
			sessionID = id.NewSessionID()
		}
		fresh := session.New()
		fresh.ID = sessionID
		fresh.UserID = userID
		fresh.OrgID = orgID
		*w.sess = *fresh

		w.persistLocal(ctx)
		return nil
	})
}

// SetStageData shallow-merges the patch into the record for its stage.
// Navigation, completion, and progress are untouched. The in-memory merge
// never fails; remote sync is a separate, explicit action.
func (w *Wizard) SetStageData(ctx context.Context, patch stage.Patch) error {
	if patch == nil {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	return w.mutate(ctx, "set_stage_data", func(ctx context.Context) error {
		w.sess.Data.Apply(patch)
		w.sess.PendingError = ""
		w.persistLocal(ctx)
		return nil
	})
}

// UpdateProgress sets the caller-reported completion percentage for a
// stage, clamped to [0, 100], and recomputes the derived overall progress.
func (w *Wizard) UpdateProgress(ctx context.Context, st stage.Stage, pct int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.mutate(ctx, "update_progress", func(_ context.Context) error {
		if !stage.Valid(st) {
			w.sess.PendingError = fmt.Sprintf("unknown stage %q", st)
			return ErrUnknownStage
		}
		w.sess.Progress[st] = stage.Clamp(pct)
		w.sess.OverallProgress = stage.OverallProgress(w.sess.Progress)
		w.sess.PendingError = ""
		return nil
	})
}

// NextStage marks the current stage completed and advances to the next
// one. At the last stage it is a silent no-op: the terminal stage is never
// marked completed by navigation — only PublishEvent finishes the flow.
//
// Advancing triggers a best-effort background remote sync. Its failure
// does not roll back the transition; it only surfaces via PendingError.
func (w *Wizard) NextStage(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.mutate(ctx, "next_stage", func(ctx context.Context) error {
		next, ok := stage.Next(w.sess.CurrentStage)
		if !ok {
			return nil
		}

		w.sess.MarkCompleted(w.sess.CurrentStage)
		w.sess.CurrentStage = next
		w.sess.PendingError = ""
		w.persistLocal(ctx)
		w.queueSync()
		return nil
	})
}

// PreviousStage moves back one stage. At the first stage it is a no-op.
// Completion is never undone: a stage once completed stays completed even
// when the user walks back through it.
func (w *Wizard) PreviousStage(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.mutate(ctx, "previous_stage", func(ctx context.Context) error {
		prev, ok := stage.Previous(w.sess.CurrentStage)
		if !ok {
			return nil
		}

		w.sess.CurrentStage = prev
		w.sess.PendingError = ""
		w.persistLocal(ctx)
		return nil
	})
}

// GoToStage jumps directly to the target stage, guarded by forward
// progress: the jump is allowed only when the target's registry index is
// at most the number of completed stages. The count, not the identities,
// is the ceiling. A blocked jump leaves the current stage unchanged,
// returns ErrCannotSkipAhead, and sets PendingError.
func (w *Wizard) GoToStage(ctx context.Context, target stage.Stage) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.mutate(ctx, "go_to_stage", func(ctx context.Context) error {
		idx := stage.IndexOf(target)
		if idx < 0 {
			w.sess.PendingError = fmt.Sprintf("unknown stage %q", target)
			return ErrUnknownStage
		}
		if idx > len(w.sess.CompletedStages) {
			w.sess.PendingError = "cannot skip ahead"
			return ErrCannotSkipAhead
		}

		w.sess.CurrentStage = target
		w.sess.PendingError = ""
		w.persistLocal(ctx)
		return nil
	})
}

// ClearSession resets every field to the initial state — a fresh,
// unauthenticated wizard — and empties the local snapshot slot.
func (w *Wizard) ClearSession(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.mutate(ctx, "clear_session", func(ctx context.Context) error {
		*w.sess = *session.New()

		if w.local != nil {
			if err := w.local.ClearSnapshot(ctx); err != nil {
				w.logger.Warn("local snapshot clear failed",
					slog.String("error", err.Error()))
			}
		}
		return nil
	})
}

// RestoreLocal rehydrates the session from the local snapshot slot,
// typically once at application start to resume a flow the user abandoned.
// Returns ErrSessionNotFound when the slot is empty.
func (w *Wizard) RestoreLocal(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.local == nil {
		return ErrNoLocalStore
	}

	return w.mutate(ctx, "restore_local", func(ctx context.Context) error {
		snap, err := w.local.ReadSnapshot(ctx)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return err
			}
			return fmt.Errorf("runway: restore local: %w", err)
		}

		*w.sess = *session.RestoreSnapshot(snap)
		return nil
	})
}

// ──────────────────────────────────────────────────
// Remote sync and publish
// ──────────────────────────────────────────────────

// SaveToBackend synchronously pushes the session's stage data to the
// remote endpoint. It fails fast with ErrNoSession when no session is
// active, without any network call. Success records LastSavedAt and clears
// PendingError; failure sets PendingError and leaves everything else
// untouched — the operation is retryable at will.
func (w *Wizard) SaveToBackend(ctx context.Context) error {
	w.mu.Lock()
	if !w.sess.Active() {
		w.sess.PendingError = "no session"
		w.mu.Unlock()
		return ErrNoSession
	}
	if w.remote == nil {
		w.sess.PendingError = "no remote configured"
		w.mu.Unlock()
		return ErrNoRemote
	}
	rec := w.sess.ToRecord(w.now())
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, w.config.SyncTimeout)
	defer cancel()
	err := w.remote.SaveSession(ctx, rec)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.sess.PendingError = "sync failed: " + err.Error()
		return fmt.Errorf("runway: save to backend: %w", err)
	}

	t := w.now()
	w.sess.LastSavedAt = &t
	w.sess.PendingError = ""
	return nil
}

// LoadFromBackend fetches a previously saved session by ID and replaces
// the in-memory session wholesale — identity, navigation, all six stage
// records, and progress come from the server's representation. On failure
// the in-memory session is left untouched and PendingError is set.
func (w *Wizard) LoadFromBackend(ctx context.Context, sessionID id.SessionID) error {
	w.mu.Lock()
	if w.remote == nil {
		w.sess.PendingError = "no remote configured"
		w.mu.Unlock()
		return ErrNoRemote
	}
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, w.config.SyncTimeout)
	defer cancel()
	rec, err := w.remote.FetchSession(ctx, sessionID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			w.sess.PendingError = "session not found"
			return fmt.Errorf("runway: load from backend: %w", err)
		}
		w.sess.PendingError = "load failed: " + err.Error()
		return fmt.Errorf("runway: load from backend: %w", err)
	}

	*w.sess = *rec.ToSession()
	w.persistLocal(ctx)
	return nil
}

// PublishEvent hands the accumulated session to the event-creation
// collaborator and records the resulting event ID. It fails fast with
// ErrNoSession when no session is active. On failure nothing else changes:
// the current stage does not advance and ReviewPublish is not marked
// completed, so publishing stays retryable. Whether a retry creates a
// duplicate event is the collaborator's contract — the remote must
// deduplicate by session; this engine cannot guarantee it.
func (w *Wizard) PublishEvent(ctx context.Context) (id.EventID, error) {
	w.mu.Lock()
	if !w.sess.Active() {
		w.sess.PendingError = "no session"
		w.mu.Unlock()
		return id.Nil, ErrNoSession
	}
	if w.remote == nil {
		w.sess.PendingError = "no remote configured"
		w.mu.Unlock()
		return id.Nil, ErrNoRemote
	}
	sessionID := w.sess.ID
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, w.config.PublishTimeout)
	defer cancel()
	evt, err := w.remote.PublishSession(ctx, sessionID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.sess.PendingError = "publish failed: " + err.Error()
		return id.Nil, fmt.Errorf("runway: publish: %w", err)
	}

	w.sess.PublishedEventID = evt.ID
	w.sess.PendingError = ""
	return evt.ID, nil
}

// Flush blocks until all in-flight background syncs have completed.
func (w *Wizard) Flush() {
	w.syncs.Wait()
}

// ──────────────────────────────────────────────────
// Accessors
// ──────────────────────────────────────────────────

// Session returns a deep copy of the current session.
func (w *Wizard) Session() *session.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sess.Clone()
}

// CurrentStage returns the stage being edited.
func (w *Wizard) CurrentStage() stage.Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sess.CurrentStage
}

// OverallProgress returns the derived overall completion percentage.
func (w *Wizard) OverallProgress() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sess.OverallProgress
}

// StageProgress returns the reported completion percentage for one stage.
func (w *Wizard) StageProgress(st stage.Stage) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sess.Progress[st]
}

// CompletedStages returns the stages advanced past, in completion order.
func (w *Wizard) CompletedStages() []stage.Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]stage.Stage(nil), w.sess.CompletedStages...)
}

// PendingError returns the last failure description, empty when the last
// state-touching operation succeeded.
func (w *Wizard) PendingError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sess.PendingError
}

// PublishedEventID returns the event created by PublishEvent, or Nil.
func (w *Wizard) PublishedEventID() id.EventID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sess.PublishedEventID
}

// LastSavedAt returns the time of the last successful remote sync, or nil.
func (w *Wizard) LastSavedAt() *time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sess.LastSavedAt == nil {
		return nil
	}
	t := *w.sess.LastSavedAt
	return &t
}

// ──────────────────────────────────────────────────
// Internals
// ──────────────────────────────────────────────────

// mutate applies fn through the middleware chain. Callers hold w.mu; the
// session pointer handed to middleware is stable for the wizard's lifetime.
func (w *Wizard) mutate(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if w.mw == nil {
		return fn(ctx)
	}
	return w.mw(ctx, op, w.sess, fn)
}

// persistLocal writes the restricted snapshot through to the local store.
// Best-effort: a failed write is logged and the mutation stands.
func (w *Wizard) persistLocal(ctx context.Context) {
	if w.local == nil {
		return
	}
	if err := w.local.WriteSnapshot(ctx, w.sess.Snapshot()); err != nil {
		w.logger.Warn("local snapshot write failed",
			slog.String("session_id", w.sess.ID.String()),
			slog.String("error", err.Error()))
	}
}

// queueSync fires a background remote save. Callers hold w.mu. The call is
// fire-and-forget on a detached context: it is not cancelled by
// ClearSession or InitSession, and its completion side effects
// (LastSavedAt, PendingError) land on whatever session is current when the
// response arrives. Out-of-order responses are not detected — last one
// wins. Acceptable for the wizard's single-user, low-write profile.
func (w *Wizard) queueSync() {
	if w.remote == nil || !w.sess.Active() {
		return
	}

	rec := w.sess.ToRecord(w.now())
	w.syncs.Add(1)
	go func() {
		defer w.syncs.Done()

		ctx, cancel := context.WithTimeout(context.Background(), w.config.SyncTimeout)
		defer cancel()
		err := w.remote.SaveSession(ctx, rec)

		w.mu.Lock()
		defer w.mu.Unlock()
		if err != nil {
			w.sess.PendingError = "sync failed: " + err.Error()
			w.logger.Warn("background sync failed",
				slog.String("session_id", rec.SessionID.String()),
				slog.String("error", err.Error()))
			return
		}

		t := w.now()
		w.sess.LastSavedAt = &t
		w.sess.PendingError = ""
	}()
}
