package cli

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scenekit/internal/loader"
	"github.com/roach88/scenekit/internal/scene"
	"github.com/roach88/scenekit/internal/store"
)

const yamlSteps = `- dispatch:
    type: ADD_OBJECT
    payload: {id: table, name: Table, type: group}
- dispatch:
    type: ADD_OBJECT
    payload: {id: lamp, name: Lamp, parent: table}
- undo: true
- redo: true
- dispatch:
    type: SELECT
    payload: {ids: [lamp]}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApplyCommandYAMLSteps(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeScene(t, dir, "room.yaml", nil)
	steps := writeFile(t, dir, "edits.yaml", yamlSteps)
	output := filepath.Join(dir, "out.json")

	out, err := execute(t, "apply", scenePath, steps, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 5 step(s) to room-1: 5 changed the scene")
	assert.Contains(t, out, "Wrote "+output)

	s, err := loader.LoadFile(output)
	require.NoError(t, err)
	require.Len(t, s.Objects, 2)
	assert.Equal(t, []string{"lamp"}, s.Objects[0].Children)
	assert.Equal(t, "table", s.Objects[1].Parent)
	assert.Equal(t, []string{"lamp"}, s.Selection)
}

func TestApplyCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeScene(t, dir, "room.json", nil)
	before, err := os.ReadFile(scenePath)
	require.NoError(t, err)
	steps := writeFile(t, dir, "edits.json", `[{"type": "ADD_OBJECT", "payload": {"id": "box", "name": "Box"}}]`)

	out, err := execute(t, "--format", "json", "apply", scenePath, steps)
	require.NoError(t, err)

	var resp struct {
		Data ApplyResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 1, resp.Data.Objects)
	assert.Equal(t, 1, resp.Data.HistoryLen)
	assert.Empty(t, resp.Data.Output)

	after, err := os.ReadFile(scenePath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestApplyCommandCyclicMoveIsNoOp(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeScene(t, dir, "room.json", nil)
	steps := writeFile(t, dir, "edits.json", `[
		{"type": "ADD_OBJECT", "payload": {"id": "a", "name": "A"}},
		{"type": "ADD_OBJECT", "payload": {"id": "b", "name": "B", "parent": "a"}},
		{"type": "MOVE_OBJECT", "payload": {"id": "a", "parent_id": "b"}}
	]`)

	out, err := execute(t, "--format", "json", "apply", scenePath, steps)
	require.NoError(t, err)

	var resp struct {
		Data ApplyResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 3, resp.Data.Steps)
	assert.Equal(t, 2, resp.Data.Changed)
	assert.Equal(t, 2, resp.Data.HistoryLen)
	assert.Empty(t, resp.Data.Errors)
}

func TestApplyCommandStrict(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeScene(t, dir, "room.json", nil)
	steps := writeFile(t, dir, "edits.json", `[{"type": "ADD_OBJECT", "payload": {"id": "box", "name": "Box"}}]`)

	_, err := execute(t, "apply", scenePath, steps, "--strict")
	require.NoError(t, err)
}

func TestApplyCommandJournal(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "scenekit.db")
	t.Setenv("SCENEKIT_DB", db)
	scenePath := writeScene(t, dir, "room.json", nil)
	steps := writeFile(t, dir, "edits.json", `[
		{"type": "ADD_OBJECT", "payload": {"id": "a", "name": "A"}},
		{"type": "ADD_OBJECT", "payload": {"id": "b", "name": "B"}}
	]`)

	_, err := execute(t, "apply", scenePath, steps, "--journal")
	require.NoError(t, err)
	// A second run continues the sequence instead of colliding with it.
	_, err = execute(t, "apply", scenePath, steps, "--journal")
	require.NoError(t, err)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	recs, err := st.ReadJournal(context.Background(), "room-1")
	require.NoError(t, err)
	require.Len(t, recs, 4)
	for i, rec := range recs {
		assert.Equal(t, int64(i+1), rec.Seq)
		assert.Equal(t, "ADD_OBJECT", rec.ActionType)
	}
	assert.Equal(t, recs[0].AfterHash, recs[1].BeforeHash)
}

func TestApplyCommandBadActions(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeScene(t, dir, "room.json", nil)

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown extension", "edits.txt", "ADD_OBJECT"},
		{"malformed json", "edits.json", `[{"type": }]`},
		{"empty step", "edits.yaml", "- {}\n"},
		{"bad payload", "edits.json", `[{"type": "MOVE_OBJECT", "payload": {"id": 3}}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := writeFile(t, dir, tt.file, tt.content)
			_, err := execute(t, "apply", scenePath, steps)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestApplyCommandUnhashableSceneFails(t *testing.T) {
	dir := t.TempDir()
	// YAML accepts .nan for a float; the canonical JSON form cannot carry it.
	scenePath := writeScene(t, dir, "room.yaml", func(s *scene.Scene) {
		s.Camera.Position.X = math.NaN()
	})
	data, err := os.ReadFile(scenePath)
	require.NoError(t, err)
	require.Contains(t, string(data), ".nan")
	steps := writeFile(t, dir, "edits.json", `[{"type": "ADD_OBJECT", "payload": {"id": "box"}}]`)

	_, err = execute(t, "apply", scenePath, steps)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReadSteps(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "edits.yaml", yamlSteps)

	steps, err := ReadSteps(path)
	require.NoError(t, err)
	require.Len(t, steps, 5)
	assert.Equal(t, "dispatch", steps[0].Kind())
	assert.Equal(t, "undo", steps[2].Kind())
	assert.Equal(t, "redo", steps[3].Kind())

	_, err = ReadSteps(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
