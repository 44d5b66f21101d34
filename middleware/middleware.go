// Package middleware provides composable middleware for wizard session
// mutations. Middleware wraps each mutation synchronously and can observe
// or modify execution (log, record history for inspection, recover from
// panics).
//
// Middleware runs inside the engine's lock, so implementations must not
// call back into the Wizard and should treat the session as read-only.
package middleware

import (
	"context"

	"github.com/maisonhq/runway/session"
)

// Handler is the terminal function that applies the mutation.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic. It receives the
// current context, the name of the operation being applied, the live
// session, and the next handler to call. Middleware MUST call next to
// continue the chain (unless short-circuiting on error).
type Middleware func(ctx context.Context, op string, sess *session.Session, next Handler) error

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, recover, recorder) executes as:
//
//	logging → recover → recorder → mutation
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, op string, sess *session.Session, next Handler) error {
		// Build the chain from the end backwards.
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) error {
				return mw(ctx, op, sess, prev)
			}
		}
		return h(ctx)
	}
}
