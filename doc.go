// Package runway provides a composable wizard session engine for multi-stage
// event-creation flows. It tracks a six-stage form (organizer → event →
// venue → ticket → sponsors → review), computes weighted completion
// progress, persists partial state to a local durable snapshot, and
// synchronizes with a remote session endpoint, including the final publish
// transition.
//
// Runway is designed as a library, not a service. Construct a Wizard,
// give it a snapshot store and a remote client, and drive it from your UI
// loop:
//
//	w, err := runway.New(
//	    runway.WithLocalStore(snapStore),
//	    runway.WithRemote(client),
//	)
//
//	w.InitSession(ctx, id.NewSessionID(), userID, orgID)
//	w.SetStageData(ctx, &stage.Organizer{Name: "Ava Laurent"})
//	w.UpdateProgress(ctx, stage.OrganizerSetup, 100)
//	w.NextStage(ctx)
//
// # Architecture
//
// Runway follows a composable store pattern: the session subsystem defines
// its persistence contracts (session.Store for the server side,
// session.SnapshotStore for the local slot) and a single backend implements
// them. Backends: Memory, Redis, Bun/Postgres, SQLite.
//
// The engine is an explicit, constructible object — no ambient global.
// Cross-cutting concerns (logging, inspection, panic recovery) attach as
// middleware decorators around session mutations.
//
// All entity IDs use TypeID — type-prefixed, K-sortable, UUIDv7-based,
// compile-time safe identifiers.
package runway
