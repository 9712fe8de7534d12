package scene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScene() *Scene {
	s := Default("scene-1", time.UnixMilli(1_000))
	s.Objects = append(s.Objects,
		Object{
			ID:        "group",
			Name:      "Group",
			Type:      ObjectGroup,
			Transform: IdentityTransform(),
			Visible:   true,
			Children:  []string{"cube"},
		},
		Object{
			ID:        "cube",
			Name:      "Cube",
			Type:      ObjectMesh,
			Geometry:  &Geometry{Type: GeometryBox, Size: V3(1, 1, 1)},
			Material:  &MaterialSlot{Inline: &Material{ID: "red", Color: "#ff0000"}},
			Transform: IdentityTransform(),
			Visible:   true,
			Parent:    "group",
			UserData:  map[string]string{"tag": "hero"},
		},
	)
	s.Selection = []string{"cube"}
	s.Environment.Shadows = &ShadowSettings{Enabled: true, Type: "pcf", MapSize: 1024, Camera: &ShadowCamera{Near: 1, Far: 10}}
	s.Environment.Fog = &Fog{Type: "linear", Color: "#cccccc", Near: 1, Far: 50}
	return s
}

func TestClone_Nil(t *testing.T) {
	var s *Scene
	assert.Nil(t, s.Clone())
}

func TestClone_StructurallyEqual(t *testing.T) {
	s := sampleScene()
	c := s.Clone()

	require.NotSame(t, s, c)
	assert.Equal(t, s, c)
	assert.Equal(t, s.MustFingerprint(), c.MustFingerprint())
}

func TestClone_AliasFree(t *testing.T) {
	s := sampleScene()
	before := s.MustFingerprint()
	c := s.Clone()

	// Mutate every nested field of the copy.
	c.Objects[0].Children[0] = "other"
	c.Objects[1].Geometry.Size.X = 99
	c.Objects[1].Material.Inline.Color = "#000000"
	c.Objects[1].UserData["tag"] = "villain"
	c.Objects[1].Transform.Position.Y = 3
	c.Materials[0].Color = "#123456"
	c.Lights[1].Position.X = -1
	c.Lights[1].Target.Z = 7
	c.Environment.Background.Color = "#000000"
	c.Environment.Fog.Density = 0.3
	c.Environment.Shadows.Camera.Far = 500
	c.Selection[0] = "group"

	assert.Equal(t, before, s.MustFingerprint(), "original must be unaffected by mutations of the clone")
	assert.Equal(t, "cube", s.Objects[0].Children[0])
	assert.Equal(t, "hero", s.Objects[1].UserData["tag"])
	assert.Equal(t, 5.0, s.Lights[1].Position.X)
}

func TestClone_PreservesNilSlices(t *testing.T) {
	s := &Scene{ID: "bare"}
	c := s.Clone()
	assert.Nil(t, c.Objects)
	assert.Nil(t, c.Selection)
	assert.Equal(t, s.MustFingerprint(), c.MustFingerprint())
}
