// Package reconcile projects scenes onto an external retained-mode system.
//
// A collaborator (a renderer, a physics world, a test double) owns handles
// for materials, objects and lights. Collection diffs one collection of a
// new scene against the id -> handle mapping left by the previous pass and
// calls Create for new ids, Dispose for vanished ids and Update for every id
// present in both. Updates are unconditional; a collaborator that wants to
// skip unchanged descriptors compares them itself.
//
// Reconciler runs Collection over a whole scene in dependency order:
// materials first so that objects can resolve material references, then
// objects, lights, camera and environment.
//
// The package never touches the engine. A render loop pulls the latest
// published scene on its own cadence (see Reconciler.Run) instead of being
// driven by every dispatch.
package reconcile
