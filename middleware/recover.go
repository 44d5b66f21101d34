package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/maisonhq/runway/session"
)

// Recover returns middleware that recovers from panics in the mutation
// chain. Panics are converted to errors and logged with a stack trace, so
// a broken decorator never takes down the UI loop driving the wizard.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, op string, sess *session.Session, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("wizard operation panicked",
					slog.String("op", op),
					slog.String("session_id", sess.ID.String()),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("panic in %s: %v", op, r)
			}
		}()
		return next(ctx)
	}
}
