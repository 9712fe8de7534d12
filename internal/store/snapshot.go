package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/scenekit/internal/scene"
)

// ErrNotFound is returned when a named snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// ErrCorrupt is returned when a stored body no longer matches its fingerprint.
var ErrCorrupt = errors.New("snapshot body does not match fingerprint")

// SnapshotInfo describes a stored snapshot without its body.
type SnapshotInfo struct {
	Name        string `json:"name"`
	SceneID     string `json:"scene_id"`
	SceneName   string `json:"scene_name"`
	Version     string `json:"version"`
	Fingerprint string `json:"fingerprint"`
	Objects     int    `json:"objects"`
	SavedAt     int64  `json:"saved_at"`
}

// SaveSnapshot stores s under name, replacing any snapshot with that name.
func (s *Store) SaveSnapshot(ctx context.Context, name string, sc *scene.Scene) (SnapshotInfo, error) {
	if name == "" {
		return SnapshotInfo{}, fmt.Errorf("save snapshot: empty name")
	}
	if sc == nil {
		return SnapshotInfo{}, fmt.Errorf("save snapshot %q: nil scene", name)
	}

	body, err := scene.MarshalCanonical(sc)
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("save snapshot %q: %w", name, err)
	}
	fp, err := sc.Fingerprint()
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("save snapshot %q: %w", name, err)
	}

	info := SnapshotInfo{
		Name:        name,
		SceneID:     sc.ID,
		SceneName:   sc.Name,
		Version:     sc.Metadata.Version,
		Fingerprint: fp,
		Objects:     len(sc.Objects),
		SavedAt:     s.now().UnixMilli(),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots
		(name, scene_id, scene_name, version, fingerprint, body, objects, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			scene_id = excluded.scene_id,
			scene_name = excluded.scene_name,
			version = excluded.version,
			fingerprint = excluded.fingerprint,
			body = excluded.body,
			objects = excluded.objects,
			saved_at = excluded.saved_at
	`,
		info.Name,
		info.SceneID,
		info.SceneName,
		info.Version,
		info.Fingerprint,
		string(body),
		info.Objects,
		info.SavedAt,
	)
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("save snapshot %q: %w", name, err)
	}
	return info, nil
}

// LoadSnapshot returns the scene stored under name.
// Returns ErrNotFound if there is none and ErrCorrupt if the body fails its
// fingerprint check.
func (s *Store) LoadSnapshot(ctx context.Context, name string) (*scene.Scene, error) {
	var body, fp string
	err := s.db.QueryRowContext(ctx, `
		SELECT body, fingerprint FROM snapshots WHERE name = ?
	`, name).Scan(&body, &fp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load snapshot %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}

	sc := new(scene.Scene)
	if err := json.Unmarshal([]byte(body), sc); err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	got, err := sc.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	if got != fp {
		return nil, fmt.Errorf("load snapshot %q: %w", name, ErrCorrupt)
	}
	return sc, nil
}

// ListSnapshots returns every snapshot ordered by name.
func (s *Store) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, scene_id, scene_name, version, fingerprint, objects, saved_at
		FROM snapshots
		ORDER BY name ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(
			&info.Name,
			&info.SceneID,
			&info.SceneName,
			&info.Version,
			&info.Fingerprint,
			&info.Objects,
			&info.SavedAt,
		); err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// DeleteSnapshot removes the snapshot stored under name.
// Returns ErrNotFound if there is none.
func (s *Store) DeleteSnapshot(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete snapshot %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete snapshot %q: %w", name, ErrNotFound)
	}
	return nil
}
