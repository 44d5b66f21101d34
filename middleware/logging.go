package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/maisonhq/runway/session"
)

// Logging returns middleware that logs each session mutation with the
// resulting navigation position and overall progress.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, op string, sess *session.Session, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Warn("wizard operation failed",
				slog.String("op", op),
				slog.String("session_id", sess.ID.String()),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
			return err
		}

		logger.Debug("wizard operation applied",
			slog.String("op", op),
			slog.String("session_id", sess.ID.String()),
			slog.String("stage", string(sess.CurrentStage)),
			slog.Int("overall_progress", sess.OverallProgress),
			slog.Duration("elapsed", elapsed),
		)
		return nil
	}
}
