// Package history records committed scene transitions and replays them for
// undo and redo.
//
// Each Entry pairs the action that was dispatched with deep, alias-free
// snapshots of the scene before and after it. Undo restores the Before
// snapshot of the entry at the cursor; Redo restores the After snapshot of
// the entry after it. Neither depends on actions being invertible.
//
// # State machine
//
// A Manager is always in one of three states:
//
//	Idle ──Begin──▶ Applying ──End──▶ Idle
//	Idle ──Undo/Redo──▶ Replaying ──(restore returns)──▶ Idle
//
// Commit is only legal while Applying, so nothing that runs during a replay
// can be recorded. Illegal transitions return *StateError; the manager never
// panics on misuse.
//
// # Memory
//
// Consecutive entries share the snapshot of their boundary state, so
// entries[i].After and entries[i+1].Before are the same pointer and no
// snapshot is stored twice. When the entry count exceeds the capacity the
// oldest entry is evicted and the cursor shifts with it; the shrinking undo
// depth is intended.
package history
