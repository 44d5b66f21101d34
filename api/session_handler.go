package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/session"
	"github.com/maisonhq/runway/stage"
)

func (a *API) mutateSession(ctx forge.Context, req *MutateSessionRequest) (*MutateSessionResponse, error) {
	sessionID, err := id.ParseSessionID(req.SessionID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid session ID: %v", err))
	}

	switch req.Op {
	case "update_stage_data":
		return a.updateStageData(ctx, sessionID, req.Data)
	case "publish":
		return a.publish(ctx, sessionID)
	default:
		return nil, forge.BadRequest(fmt.Sprintf("unknown op %q", req.Op))
	}
}

// updateStageData replaces the stored stage-data set with the submitted one
// and advances the stored navigation state to the submitted stage. The
// client always sends the full accumulated set, so replacement is safe.
func (a *API) updateStageData(ctx forge.Context, sessionID id.SessionID, patch *StagePatch) (*MutateSessionResponse, error) {
	if patch == nil {
		return nil, forge.BadRequest("missing data for update_stage_data")
	}
	current := stage.Stage(patch.Stage)
	if !stage.Valid(current) {
		return nil, forge.BadRequest(fmt.Sprintf("unknown stage %q", patch.Stage))
	}

	rec, err := a.store.GetSession(ctx.Context(), sessionID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			return nil, fmt.Errorf("load session: %w", err)
		}
		rec = &session.Record{SessionID: sessionID, CurrentStage: stage.First()}
	}

	rec.CurrentStage = current
	rec.OrganizerData = patch.StageData.Organizer
	rec.EventData = patch.StageData.Event
	rec.VenueData = patch.StageData.Venue
	rec.TicketData = patch.StageData.Ticket
	rec.SponsorData = patch.StageData.Sponsor
	rec.ReviewData = patch.StageData.Review

	// Navigation is sequential on the client, so every stage before the
	// submitted one has been advanced past. Derive completion from that.
	caughtUp := stage.Order()[:stage.IndexOf(current)]
	rec.CompletedStages = append([]stage.Stage(nil), caughtUp...)
	detail := make(map[stage.Stage]int, len(caughtUp))
	for _, s := range caughtUp {
		detail[s] = 100
	}
	rec.CompletionDetail = detail
	rec.CompletionPct = stage.OverallProgress(detail)
	rec.UpdatedAt = time.Now().UTC()

	if err := a.store.UpsertSession(ctx.Context(), rec); err != nil {
		return nil, fmt.Errorf("upsert session: %w", err)
	}

	resp := &MutateSessionResponse{Status: "ok"}
	return resp, ctx.JSON(http.StatusOK, resp)
}

// publish hands the stored session to the event creator and records the
// resulting event ID on the session. The creator deduplicates repeated
// publishes, so retries return the original event.
func (a *API) publish(ctx forge.Context, sessionID id.SessionID) (*MutateSessionResponse, error) {
	rec, err := a.store.GetSession(ctx.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, forge.NotFound(fmt.Sprintf("session %s not found", sessionID))
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	evt, err := a.creator.CreateFromSession(ctx.Context(), rec)
	if err != nil {
		return nil, fmt.Errorf("publish session: %w", err)
	}

	if rec.PublishedEventID.IsNil() {
		rec.PublishedEventID = evt.ID
		rec.UpdatedAt = time.Now().UTC()
		if err := a.store.UpsertSession(ctx.Context(), rec); err != nil {
			return nil, fmt.Errorf("record published event: %w", err)
		}
	}

	resp := &MutateSessionResponse{Status: "ok", Event: evt}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) getSession(ctx forge.Context, _ *GetSessionRequest) (*session.Record, error) {
	sessionID, err := id.ParseSessionID(ctx.Param("sessionId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid session ID: %v", err))
	}

	rec, err := a.store.GetSession(ctx.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, forge.NotFound(fmt.Sprintf("session %s not found", sessionID))
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	return rec, ctx.JSON(http.StatusOK, rec)
}

func (a *API) listSessions(ctx forge.Context, req *ListSessionsRequest) ([]*session.Record, error) {
	opts := session.ListOpts{
		Limit:  defaultLimit(req.Limit),
		Offset: req.Offset,
	}
	if req.UserID != "" {
		userID, err := id.ParseUserID(req.UserID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid user ID: %v", err))
		}
		opts.UserID = userID
	}

	recs, err := a.store.ListSessions(ctx.Context(), opts)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return recs, ctx.JSON(http.StatusOK, recs)
}
