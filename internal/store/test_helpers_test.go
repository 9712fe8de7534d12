package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/scenekit/internal/scene"
)

var testNow = time.UnixMilli(1_700_000_000_000)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithNow(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestScene creates a default scene with one object.
func createTestScene(id string) *scene.Scene {
	s := scene.Default(id, testNow)
	s.Objects = append(s.Objects, scene.Object{
		ID:        "cube",
		Name:      "Cube",
		Type:      scene.ObjectMesh,
		Transform: scene.IdentityTransform(),
		Visible:   true,
		Geometry:  &scene.Geometry{Type: scene.GeometryBox, Size: scene.V3(1, 1, 1)},
		Material:  &scene.MaterialSlot{ID: scene.DefaultMaterialID},
	})
	return s
}
