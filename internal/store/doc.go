// Package store provides SQLite-backed persistence for scene snapshots and
// the action journal.
//
// The store holds two things:
//   - Snapshots: named, explicitly exported scenes (save/load/list/delete)
//   - Journal: an append-only log of committed history entries
//
// Snapshots are the only way a scene outlives the process; the engine never
// writes them implicitly.
//
// # Patterns
//
// Canonical encoding:
//   - Snapshot bodies are stored as canonical JSON (sorted keys, NFC)
//   - The stored fingerprint is re-checked on load, so a hand-edited or
//     truncated row fails loudly instead of loading a different scene
//
// Deterministic reads:
//   - Journal queries order by seq ASC
//   - Snapshot listings order by name ASC COLLATE BINARY
//
// Idempotent journal writes:
//   - PRIMARY KEY (scene_id, seq) with ON CONFLICT DO NOTHING
//   - Re-appending an entry already written is silently ignored
package store
