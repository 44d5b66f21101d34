package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/maisonhq/runway/middleware"
	"github.com/maisonhq/runway/session"
	"github.com/maisonhq/runway/stage"
)

func TestChain_OutermostFirst(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) middleware.Middleware {
		return func(ctx context.Context, _ string, _ *session.Session, next middleware.Handler) error {
			order = append(order, name+":before")
			err := next(ctx)
			order = append(order, name+":after")
			return err
		}
	}

	chain := middleware.Chain(tag("outer"), tag("inner"))
	err := chain(context.Background(), "test_op", session.New(), func(context.Context) error {
		order = append(order, "mutation")
		return nil
	})
	if err != nil {
		t.Fatalf("chain failed: %v", err)
	}

	want := []string{"outer:before", "inner:before", "mutation", "inner:after", "outer:after"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestChain_Empty(t *testing.T) {
	t.Parallel()

	called := false
	err := middleware.Chain()(context.Background(), "noop", session.New(), func(context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("empty chain failed: %v", err)
	}
	if !called {
		t.Error("empty chain did not call the mutation")
	}
}

func TestRecover_ConvertsPanicToError(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := middleware.Recover(logger)

	err := mw(context.Background(), "boom_op", session.New(), func(context.Context) error {
		panic("decorator exploded")
	})
	if err == nil {
		t.Fatal("panic was not converted to an error")
	}
	if !strings.Contains(err.Error(), "boom_op") || !strings.Contains(err.Error(), "decorator exploded") {
		t.Errorf("error = %q, want op name and panic value", err)
	}
}

func TestRecover_PassesThroughErrors(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := middleware.Recover(logger)

	sentinel := errors.New("ordinary failure")
	err := mw(context.Background(), "op", session.New(), func(context.Context) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("error = %v, want sentinel passed through", err)
	}
}

func TestRecorder_CapturesPostOpState(t *testing.T) {
	t.Parallel()

	rec := middleware.NewRecorder(10)
	mw := rec.Middleware()
	sess := session.New()

	if err := mw(context.Background(), "advance", sess, func(context.Context) error {
		sess.CurrentStage = stage.EventSetup
		sess.OverallProgress = 15
		return nil
	}); err != nil {
		t.Fatalf("middleware failed: %v", err)
	}

	failure := errors.New("blocked")
	_ = mw(context.Background(), "jump", sess, func(context.Context) error {
		return failure
	})

	entries := rec.Entries()
	if len(entries) != 2 {
		t.Fatalf("recorded %d entries, want 2", len(entries))
	}
	if entries[0].Op != "advance" || entries[0].Stage != stage.EventSetup || entries[0].Overall != 15 {
		t.Errorf("entry[0] = %+v, want post-op state captured", entries[0])
	}
	if entries[0].Error != "" {
		t.Errorf("entry[0].Error = %q, want empty on success", entries[0].Error)
	}
	if entries[1].Error != "blocked" {
		t.Errorf("entry[1].Error = %q, want failure recorded", entries[1].Error)
	}
}

func TestRecorder_BoundsHistory(t *testing.T) {
	t.Parallel()

	rec := middleware.NewRecorder(3)
	mw := rec.Middleware()
	sess := session.New()

	ops := []string{"a", "b", "c", "d", "e"}
	for _, op := range ops {
		_ = mw(context.Background(), op, sess, func(context.Context) error { return nil })
	}

	entries := rec.Entries()
	if len(entries) != 3 {
		t.Fatalf("recorded %d entries, want 3 (bounded)", len(entries))
	}
	for i, want := range []string{"c", "d", "e"} {
		if entries[i].Op != want {
			t.Errorf("entry[%d].Op = %q, want oldest evicted, %q kept", i, entries[i].Op, want)
		}
	}

	rec.Reset()
	if got := rec.Entries(); len(got) != 0 {
		t.Errorf("Entries after Reset = %v, want empty", got)
	}
}
