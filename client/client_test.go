package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maisonhq/runway/backoff"
	"github.com/maisonhq/runway/client"
	"github.com/maisonhq/runway/event"
	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/session"
	"github.com/maisonhq/runway/stage"
)

func testRecord() *session.Record {
	return &session.Record{
		SessionID:    id.NewSessionID(),
		UserID:       id.NewUserID(),
		CurrentStage: stage.EventSetup,
		CompletedStages: []stage.Stage{
			stage.OrganizerSetup,
		},
		OrganizerData: &stage.Organizer{Name: "Ava Laurent"},
		EventData:     &stage.Event{Title: "Couture Week Showcase"},
		CompletionPct: 15,
		UpdatedAt:     time.Now().UTC(),
	}
}

func TestSaveSession_RequestShape(t *testing.T) {
	t.Parallel()

	var captured struct {
		Op        string `json:"op"`
		SessionID string `json:"sessionId"`
		Data      struct {
			Stage     string                     `json:"stage"`
			StageData map[string]json.RawMessage `json:"stageData"`
		} `json:"data"`
	}
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v1/wizard/session" {
			t.Errorf("path = %s, want /v1/wizard/session", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithToken("rk_test"))
	rec := testRecord()
	if err := c.SaveSession(context.Background(), rec); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	if auth != "Bearer rk_test" {
		t.Errorf("Authorization = %q, want bearer token", auth)
	}
	if captured.Op != "update_stage_data" {
		t.Errorf("op = %q, want update_stage_data", captured.Op)
	}
	if captured.SessionID != rec.SessionID.String() {
		t.Errorf("sessionId = %q, want %q", captured.SessionID, rec.SessionID)
	}
	if captured.Data.Stage != string(stage.EventSetup) {
		t.Errorf("data.stage = %q, want %q", captured.Data.Stage, stage.EventSetup)
	}
	if _, ok := captured.Data.StageData["organizer"]; !ok {
		t.Errorf("stageData missing organizer record: %v", captured.Data.StageData)
	}
	if _, ok := captured.Data.StageData["event"]; !ok {
		t.Errorf("stageData missing event record: %v", captured.Data.StageData)
	}
	// Unset stages are omitted rather than sent as null.
	if _, ok := captured.Data.StageData["venue"]; ok {
		t.Errorf("stageData contains unset venue record")
	}
}

func TestFetchSession_DecodesRecord(t *testing.T) {
	t.Parallel()

	rec := testRecord()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		want := "/v1/wizard/session/" + rec.SessionID.String()
		if r.URL.Path != want {
			t.Errorf("path = %s, want %s", r.URL.Path, want)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rec)
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	got, err := c.FetchSession(context.Background(), rec.SessionID)
	if err != nil {
		t.Fatalf("FetchSession failed: %v", err)
	}
	if got.SessionID.String() != rec.SessionID.String() {
		t.Errorf("SessionID = %s, want %s", got.SessionID, rec.SessionID)
	}
	if got.CurrentStage != stage.EventSetup {
		t.Errorf("CurrentStage = %q, want %q", got.CurrentStage, stage.EventSetup)
	}
	if got.EventData == nil || got.EventData.Title != "Couture Week Showcase" {
		t.Errorf("EventData = %+v, want title preserved", got.EventData)
	}
}

func TestFetchSession_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.FetchSession(context.Background(), id.NewSessionID())
	if !errors.Is(err, session.ErrNotFound) {
		t.Errorf("FetchSession error = %v, want ErrNotFound", err)
	}
}

func TestPublishSession_ReturnsEvent(t *testing.T) {
	t.Parallel()

	evt := &event.Event{
		ID:        id.NewEventID(),
		Title:     "Couture Week Showcase",
		Status:    event.StatusPublished,
		CreatedAt: time.Now().UTC(),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Op string `json:"op"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Op != "publish" {
			t.Errorf("op = %q, want publish", req.Op)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"event": evt})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	got, err := c.PublishSession(context.Background(), id.NewSessionID())
	if err != nil {
		t.Fatalf("PublishSession failed: %v", err)
	}
	if got.ID.String() != evt.ID.String() {
		t.Errorf("event ID = %s, want %s", got.ID, evt.ID)
	}
	if got.Status != event.StatusPublished {
		t.Errorf("Status = %q, want %q", got.Status, event.StatusPublished)
	}
}

func TestRetries_ServerErrorThenSuccess(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, `{"message":"temporarily unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := client.New(srv.URL,
		client.WithRetries(3, backoff.NewConstant(time.Millisecond)),
	)
	if err := c.SaveSession(context.Background(), testRecord()); err != nil {
		t.Fatalf("SaveSession failed after retries: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d calls, want 3", got)
	}
}

func TestRetries_Exhausted(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, `{"message":"still down"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := client.New(srv.URL,
		client.WithRetries(2, backoff.NewConstant(time.Millisecond)),
	)
	err := c.SaveSession(context.Background(), testRecord())
	if err == nil {
		t.Fatal("SaveSession succeeded, want error after exhausted retries")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d calls, want 3 (initial + 2 retries)", got)
	}
}

func TestClientError_NoRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, `{"message":"bad payload"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := client.New(srv.URL,
		client.WithRetries(5, backoff.NewConstant(time.Millisecond)),
	)
	err := c.SaveSession(context.Background(), testRecord())
	if err == nil {
		t.Fatal("SaveSession succeeded, want rejection")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d calls, want 1 (client errors do not retry)", got)
	}
}
