package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scenekit/internal/loader"
	"github.com/roach88/scenekit/internal/reducer"
	"github.com/roach88/scenekit/internal/scene"
)

func TestNewCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "room.yaml")

	out, err := execute(t, "new", path, "--name", "Living Room", "--id", "room-7")
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+path+" (scene room-7)")

	s, err := loader.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "room-7", s.ID)
	assert.Equal(t, "Living Room", s.Name)
	assert.Empty(t, s.Objects)
	assert.Len(t, s.Lights, 2)
	assert.Empty(t, reducer.CheckIntegrity(s))
}

func TestNewCommandGeneratesID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "room.json")

	out, err := execute(t, "--format", "json", "new", path)
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   NewResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Len(t, resp.Data.ID, 36)
	assert.Equal(t, "Untitled Scene", resp.Data.Name)
	assert.Len(t, resp.Data.Fingerprint, 64)
}

func TestNewCommandRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := writeScene(t, dir, "room.json", nil)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = execute(t, "new", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = execute(t, "new", path, "--force", "--id", "fresh")
	require.NoError(t, err)
	s, err := loader.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", s.ID)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeScene(t, dir, "good.yaml", func(s *scene.Scene) {
		s.Objects = append(s.Objects, scene.Object{ID: "box", Name: "Box", Type: scene.ObjectMesh, Transform: scene.IdentityTransform(), Visible: true})
	})

	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+good+" (1 objects)")
}

func TestValidateCommandViolations(t *testing.T) {
	dir := t.TempDir()
	good := writeScene(t, dir, "good.json", nil)
	bad := writeScene(t, dir, "bad.json", func(s *scene.Scene) {
		s.Objects = append(s.Objects, scene.Object{ID: "lamp", Name: "Lamp", Type: scene.ObjectMesh, Transform: scene.IdentityTransform(), Parent: "ghost"})
		s.Selection = []string{"nobody"}
	})

	out, err := execute(t, "--format", "json", "validate", good, bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Data []ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	assert.True(t, resp.Data[0].Valid)
	assert.False(t, resp.Data[1].Valid)

	var kinds []reducer.ViolationKind
	for _, v := range resp.Data[1].Violations {
		kinds = append(kinds, v.Kind)
	}
	assert.Contains(t, kinds, reducer.ViolationMissingParent)
	assert.Contains(t, kinds, reducer.ViolationStaleSelection)
}

func TestValidateCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id": "x", "bogus": true}`), 0o644))

	_, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "validate", filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDiffCommandEquivalent(t *testing.T) {
	dir := t.TempDir()
	a := writeScene(t, dir, "a.json", nil)
	b := writeScene(t, dir, "b.yaml", nil)

	out, err := execute(t, "diff", a, b)
	require.NoError(t, err)
	assert.Equal(t, "Scenes are equivalent\n", out)
}

func TestDiffCommandChanges(t *testing.T) {
	dir := t.TempDir()
	a := writeScene(t, dir, "a.json", func(s *scene.Scene) {
		s.Objects = append(s.Objects, scene.Object{ID: "old", Name: "Old", Type: scene.ObjectGroup, Transform: scene.IdentityTransform()})
	})
	b := writeScene(t, dir, "b.json", func(s *scene.Scene) {
		s.Objects = append(s.Objects, scene.Object{ID: "new", Name: "New", Type: scene.ObjectGroup, Transform: scene.IdentityTransform()})
		s.Lights[0].Intensity = 0.9
		s.Camera.FOV = 60
		s.Selection = []string{"new"}
	})

	out, err := execute(t, "diff", a, b)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "+ object new\n")
	assert.Contains(t, out, "- object old\n")
	assert.Contains(t, out, "~ light ambient\n")
	assert.Contains(t, out, "~ camera\n")
	assert.Contains(t, out, "~ selection\n")
	assert.NotContains(t, out, "environment")
}

func TestDiff(t *testing.T) {
	a := scene.Default("a", time.UnixMilli(0))
	b := a.Clone()
	b.Materials = append(b.Materials, scene.DefaultMaterial("oak"))
	b.Materials[0].Roughness = 0.9

	d, err := Diff(a, b)
	require.NoError(t, err)
	assert.False(t, d.Same)
	assert.Equal(t, []string{"oak"}, d.Materials.Added)
	assert.Equal(t, []string{scene.DefaultMaterialID}, d.Materials.Changed)
	assert.True(t, d.Objects.Empty())
	assert.True(t, d.Lights.Empty())

	d, err = Diff(a, a.Clone())
	require.NoError(t, err)
	assert.True(t, d.Same)
}
