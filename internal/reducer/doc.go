// Package reducer computes the next scene from the current scene and an
// action.
//
// Reduce is the only legal mutation path for a scene. It is synchronous,
// performs no I/O and is deterministic given the injected Clock and
// IDGenerator.
//
// # No-op contract
//
// Whenever an action is semantically a no-op (unknown action, target id not
// found, invalid reference, structural violation) Reduce returns the exact
// pointer it was given. Callers compare pointers to decide whether anything
// happened:
//
//	next := r.Reduce(cur, a)
//	if next == cur {
//		return // nothing to record or publish
//	}
//
// # Copy-on-write
//
// A scene passed to Reduce is never mutated. The result is a shallow copy in
// which every slice, map or pointer that changed is freshly allocated.
// Unchanged substructure is shared between versions, which is safe because
// no published scene is ever written to.
//
// # Hierarchy
//
// Parent/children links only change through MoveObject, ReorderChildren,
// AddObject (attach and adopt) and RemoveObject (per RemovePolicy).
// IsDescendant guards every reparenting against cycles, and CheckIntegrity
// audits a whole scene for the invariants the reducer maintains.
package reducer
