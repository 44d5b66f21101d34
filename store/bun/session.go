package bunstore

import (
	"context"
	"fmt"
	"time"

	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/session"
)

// UpsertSession creates or fully replaces a session record.
func (s *Store) UpsertSession(ctx context.Context, rec *session.Record) error {
	m, err := toSessionModel(rec)
	if err != nil {
		return fmt.Errorf("runway/bun: upsert session: %w", err)
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = time.Now().UTC()
	}

	_, err = s.db.NewInsert().Model(m).
		On("CONFLICT (session_id) DO UPDATE").
		Set("user_id = EXCLUDED.user_id").
		Set("organization_id = EXCLUDED.organization_id").
		Set("current_stage = EXCLUDED.current_stage").
		Set("completed_stages = EXCLUDED.completed_stages").
		Set("organizer_data = EXCLUDED.organizer_data").
		Set("event_data = EXCLUDED.event_data").
		Set("venue_data = EXCLUDED.venue_data").
		Set("ticket_data = EXCLUDED.ticket_data").
		Set("sponsor_data = EXCLUDED.sponsor_data").
		Set("review_data = EXCLUDED.review_data").
		Set("completion_details = EXCLUDED.completion_details").
		Set("completion_percentage = EXCLUDED.completion_percentage").
		Set("published_event_id = EXCLUDED.published_event_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("runway/bun: upsert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session record by ID.
func (s *Store) GetSession(ctx context.Context, sessionID id.SessionID) (*session.Record, error) {
	m := new(sessionModel)
	err := s.db.NewSelect().Model(m).
		Where("session_id = ?", sessionID.String()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("runway/bun: get session: %w", err)
	}
	return fromSessionModel(m)
}

// DeleteSession removes a session record by ID.
func (s *Store) DeleteSession(ctx context.Context, sessionID id.SessionID) error {
	_, err := s.db.NewDelete().
		TableExpr("runway_sessions").
		Where("session_id = ?", sessionID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("runway/bun: delete session: %w", err)
	}
	return nil
}

// ListSessions returns session records matching the given options, most
// recently updated first.
func (s *Store) ListSessions(ctx context.Context, opts session.ListOpts) ([]*session.Record, error) {
	var models []sessionModel
	q := s.db.NewSelect().Model(&models)

	if !opts.UserID.IsNil() {
		q = q.Where("user_id = ?", opts.UserID.String())
	}

	q = q.Order("updated_at DESC")

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("runway/bun: list sessions: %w", err)
	}

	recs := make([]*session.Record, 0, len(models))
	for i := range models {
		rec, convErr := fromSessionModel(&models[i])
		if convErr != nil {
			return nil, fmt.Errorf("runway/bun: list sessions convert: %w", convErr)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
