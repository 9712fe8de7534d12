// Package engine is the facade that owns the current scene.
//
// The engine composes the reducer, the history manager and the subscriber
// list. Every change goes through Dispatch:
//
//  1. The reducer computes the next scene (or returns the same pointer for
//     a no-op, in which case Dispatch stops here).
//  2. The history manager commits the before/after pair.
//  3. The new scene is published through an atomic pointer.
//  4. The committed entry is appended to the journal, if one is configured.
//  5. Subscribers are called synchronously, in registration order.
//
// CONCURRENCY:
//
// Dispatch, Undo, Redo and the convenience wrappers must be called from a
// single logical thread. Scene() may be called from any goroutine, which is
// how a render loop pulls the latest snapshot on its own cadence (see
// reconcile.Reconciler.Run). Published scenes are immutable.
//
// RE-ENTRANCY:
//
// A subscriber may dispatch. Nesting is bounded by the max depth (default
// 8); going deeper fails with DEPTH_EXCEEDED. While undo or redo is notifying
// subscribers the history is Replaying and Dispatch fails with REPLAYING, so
// nothing that reacts to a replay is ever recorded.
package engine
