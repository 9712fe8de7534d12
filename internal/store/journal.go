package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// JournalRecord is one committed history entry as persisted.
type JournalRecord struct {
	SceneID    string          `json:"scene_id"`
	Seq        int64           `json:"seq"`
	ActionType string          `json:"action_type"`
	Action     json.RawMessage `json:"action"`
	BeforeHash string          `json:"before_hash"`
	AfterHash  string          `json:"after_hash"`
	Timestamp  int64           `json:"ts"`
}

// AppendJournal inserts rec.
// Uses ON CONFLICT DO NOTHING for idempotency - re-appending the same
// (scene_id, seq) is silently ignored.
func (s *Store) AppendJournal(ctx context.Context, rec JournalRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journal
		(scene_id, seq, action_type, action, before_hash, after_hash, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		rec.SceneID,
		rec.Seq,
		rec.ActionType,
		string(rec.Action),
		rec.BeforeHash,
		rec.AfterHash,
		rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append journal: %w", err)
	}
	return nil
}

// ReadJournal returns the records of sceneID ordered by seq. An empty
// sceneID returns every record, ordered by seq then scene id.
func (s *Store) ReadJournal(ctx context.Context, sceneID string) ([]JournalRecord, error) {
	query := `
		SELECT scene_id, seq, action_type, action, before_hash, after_hash, ts
		FROM journal
		WHERE scene_id = ?
		ORDER BY seq ASC
	`
	args := []any{sceneID}
	if sceneID == "" {
		query = `
			SELECT scene_id, seq, action_type, action, before_hash, after_hash, ts
			FROM journal
			ORDER BY seq ASC, scene_id ASC COLLATE BINARY
		`
		args = nil
	}

	return s.queryJournal(ctx, query, args...)
}

// ReadJournalByType returns every record of actionType across scenes,
// ordered by seq.
func (s *Store) ReadJournalByType(ctx context.Context, actionType string) ([]JournalRecord, error) {
	return s.queryJournal(ctx, `
		SELECT scene_id, seq, action_type, action, before_hash, after_hash, ts
		FROM journal
		WHERE action_type = ?
		ORDER BY seq ASC, scene_id ASC COLLATE BINARY
	`, actionType)
}

func (s *Store) queryJournal(ctx context.Context, query string, args ...any) ([]JournalRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	defer rows.Close()

	var out []JournalRecord
	for rows.Next() {
		var (
			rec    JournalRecord
			action string
		)
		if err := rows.Scan(
			&rec.SceneID,
			&rec.Seq,
			&rec.ActionType,
			&action,
			&rec.BeforeHash,
			&rec.AfterHash,
			&rec.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("read journal: %w", err)
		}
		rec.Action = json.RawMessage(action)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return out, nil
}

// LastJournalSeq returns the highest seq in the journal, or 0 when empty.
// Engines resume numbering from it.
func (s *Store) LastJournalSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM journal`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last journal seq: %w", err)
	}
	return seq, nil
}
