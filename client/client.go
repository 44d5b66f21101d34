// Package client provides an HTTP client for the remote wizard session
// endpoint. It implements the engine's Remote contract: save, fetch, and
// publish, with retries and client-side rate limiting.
//
// Usage:
//
//	c := client.New("https://api.example.com",
//	    client.WithToken("rk_..."),
//	)
//
//	w, err := runway.New(runway.WithRemote(c))
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/maisonhq/runway"
	"github.com/maisonhq/runway/event"
	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/session"
	"github.com/maisonhq/runway/stage"
)

// sessionPath is the remote session resource consumed by save and publish.
const sessionPath = "/v1/wizard/session"

// Ensure Client satisfies the engine's Remote contract at compile time.
var _ runway.Remote = (*Client)(nil)

// Client talks to a remote wizard session endpoint over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
	backoff    delayer
	maxRetries int
	limiter    waiter
}

// delayer is the subset of backoff.Strategy the client needs.
type delayer interface {
	Delay(attempt int) time.Duration
}

// waiter is the subset of rate.Limiter the client needs.
type waiter interface {
	Wait(ctx context.Context) error
}

// New creates a client for the session endpoint at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ──────────────────────────────────────────────────
// Wire shapes
// ──────────────────────────────────────────────────

// mutateRequest is the envelope for the upsert and publish calls. The
// endpoint dispatches on op rather than on distinct routes.
type mutateRequest struct {
	Op        string       `json:"op"`
	SessionID id.SessionID `json:"sessionId"`
	Data      *stagePatch  `json:"data,omitempty"`
}

// stagePatch carries the stage being edited plus the full six-record
// accumulated state.
type stagePatch struct {
	Stage     string    `json:"stage"`
	StageData stageData `json:"stageData"`
}

type stageData struct {
	Organizer *stage.Organizer `json:"organizer,omitempty"`
	Event     *stage.Event     `json:"event,omitempty"`
	Venue     *stage.Venue     `json:"venue,omitempty"`
	Ticket    *stage.Ticket    `json:"ticket,omitempty"`
	Sponsor   *stage.Sponsor   `json:"sponsor,omitempty"`
	Review    *stage.Review    `json:"review,omitempty"`
}

type publishResponse struct {
	Event json.RawMessage `json:"event"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ──────────────────────────────────────────────────
// Remote operations
// ──────────────────────────────────────────────────

// SaveSession sends the full accumulated session state to the endpoint.
func (c *Client) SaveSession(ctx context.Context, rec *session.Record) error {
	req := mutateRequest{
		Op:        "update_stage_data",
		SessionID: rec.SessionID,
		Data: &stagePatch{
			Stage: string(rec.CurrentStage),
			StageData: stageData{
				Organizer: rec.OrganizerData,
				Event:     rec.EventData,
				Venue:     rec.VenueData,
				Ticket:    rec.TicketData,
				Sponsor:   rec.SponsorData,
				Review:    rec.ReviewData,
			},
		},
	}
	if err := c.do(ctx, http.MethodPost, sessionPath, req, nil); err != nil {
		return fmt.Errorf("runway/client: save session: %w", err)
	}
	return nil
}

// FetchSession retrieves a previously saved session by ID. Returns
// session.ErrNotFound if the endpoint has no session under that ID.
func (c *Client) FetchSession(ctx context.Context, sessionID id.SessionID) (*session.Record, error) {
	rec := new(session.Record)
	err := c.do(ctx, http.MethodGet, sessionPath+"/"+sessionID.String(), nil, rec)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("runway/client: fetch session: %w", err)
	}
	return rec, nil
}

// PublishSession asks the endpoint to create the event from the session's
// accumulated state and returns the created event.
func (c *Client) PublishSession(ctx context.Context, sessionID id.SessionID) (*event.Event, error) {
	req := mutateRequest{
		Op:        "publish",
		SessionID: sessionID,
	}
	var resp publishResponse
	if err := c.do(ctx, http.MethodPost, sessionPath, req, &resp); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("runway/client: publish session: %w", err)
	}

	evt := new(event.Event)
	if err := json.Unmarshal(resp.Event, evt); err != nil {
		return nil, fmt.Errorf("runway/client: publish response: %w", err)
	}
	return evt, nil
}

// ──────────────────────────────────────────────────
// Request plumbing
// ──────────────────────────────────────────────────

// do issues one HTTP request with retries. Server errors (5xx) and network
// failures retry up to maxRetries with backoff delays; client errors fail
// immediately.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if c.backoff == nil || attempt > c.maxRetries {
				return lastErr
			}
			delay := c.backoff.Delay(attempt)
			c.logger.Debug("retrying session endpoint call",
				slog.String("path", path),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		retryable, err := c.doOnce(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		if !retryable {
			return err
		}
		lastErr = err
	}
}

// doOnce issues a single request. The bool reports whether the failure is
// worth retrying.
func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte, out any) (bool, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, session.ErrNotFound
	case resp.StatusCode >= 500:
		return true, fmt.Errorf("server error: %s", responseMessage(resp))
	case resp.StatusCode >= 400:
		return false, fmt.Errorf("request rejected: %s", responseMessage(resp))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("decode response: %w", err)
		}
	}
	return false, nil
}

// responseMessage extracts a human-readable message from an error response,
// falling back to the HTTP status.
func responseMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(body) > 0 {
		var er errorResponse
		if json.Unmarshal(body, &er) == nil {
			if er.Message != "" {
				return er.Message
			}
			if er.Error != "" {
				return er.Error
			}
		}
	}
	return resp.Status
}
