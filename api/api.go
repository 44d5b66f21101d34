// Package api provides Forge HTTP handlers for the wizard session endpoint.
// It is the server side of the client package's wire contract: one mutate
// route dispatching on op, and one fetch route.
package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/maisonhq/runway/event"
	"github.com/maisonhq/runway/session"
	"github.com/maisonhq/runway/store"
)

// API wires the session endpoint handlers together.
type API struct {
	store   store.Store
	creator event.Creator
	router  forge.Router
}

// New creates an API over the given store. The creator handles publish
// transitions; pass event.NewStoreCreator(st) to publish into the same store.
func New(st store.Store, creator event.Creator, router forge.Router) *API {
	return &API{store: st, creator: creator, router: router}
}

// Handler returns the fully assembled http.Handler with all routes.
func (a *API) Handler() http.Handler {
	if a.router == nil {
		a.router = forge.NewRouter()
	}
	a.RegisterRoutes(a.router)
	return a.router.Handler()
}

// RegisterRoutes registers the session endpoint routes into the given Forge
// router with full OpenAPI metadata.
func (a *API) RegisterRoutes(router forge.Router) {
	g := router.Group("/v1/wizard", forge.WithGroupTags("wizard"))

	_ = g.POST("/session", a.mutateSession,
		forge.WithSummary("Mutate wizard session"),
		forge.WithDescription("Upserts stage data or publishes the session, dispatching on the op field."),
		forge.WithOperationID("mutateWizardSession"),
		forge.WithRequestSchema(MutateSessionRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Mutation result", MutateSessionResponse{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/session/:sessionId", a.getSession,
		forge.WithSummary("Fetch wizard session"),
		forge.WithDescription("Returns the stored session record by ID."),
		forge.WithOperationID("getWizardSession"),
		forge.WithResponseSchema(http.StatusOK, "Session record", &session.Record{}),
		forge.WithErrorResponses(),
	)

	_ = g.GET("/session", a.listSessions,
		forge.WithSummary("List wizard sessions"),
		forge.WithDescription("Returns session records, most recently updated first."),
		forge.WithOperationID("listWizardSessions"),
		forge.WithRequestSchema(ListSessionsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Session records", []*session.Record{}),
		forge.WithErrorResponses(),
	)
}
