// Package action defines the closed set of scene actions.
//
// An Action is an immutable, named description of one intended change to a
// scene. Action is a sealed interface: only the types in this package
// implement it, and the reducer matches on them exhaustively with a
// catch-all arm that leaves the scene untouched.
//
// Actions travel as a JSON envelope:
//
//	{"type": "MOVE_OBJECT", "payload": {"id": "cube", "parent_id": "group", "index": 0}}
//
// Unrecognised types decode to Unknown rather than failing, so a newer
// producer can talk to an older engine.
package action
