package scene

import "time"

// Default returns a fresh default scene: one neutral material, an ambient and
// a directional light, a perspective camera looking at the origin and a plain
// colour background. Created and Modified are both set to now.
func Default(id string, now time.Time) *Scene {
	ms := now.UnixMilli()
	sun := V3(5, 5, 5)
	origin := V3(0, 0, 0)

	return &Scene{
		ID:      id,
		Name:    "Untitled Scene",
		Objects: []Object{},
		Materials: []Material{
			DefaultMaterial(DefaultMaterialID),
		},
		Lights: []Light{
			{
				ID:        "ambient",
				Name:      "Ambient Light",
				Type:      LightAmbient,
				Color:     "#ffffff",
				Intensity: 0.4,
			},
			{
				ID:        "directional",
				Name:      "Sun Light",
				Type:      LightDirectional,
				Color:     "#ffffff",
				Intensity: 0.8,
				Position:  &sun,
				Target:    &origin,
			},
		},
		Camera: Camera{
			Type:     CameraPerspective,
			Position: V3(5, 5, 5),
			Target:   V3(0, 0, 0),
			FOV:      75,
			Aspect:   1,
			Near:     0.1,
			Far:      1000,
		},
		Environment: Environment{
			Background: &Background{Type: "color", Color: "#f0f0f0"},
		},
		Selection: []string{},
		Metadata: Metadata{
			Created:  ms,
			Modified: ms,
			Version:  SchemaVersion,
		},
	}
}

// DefaultMaterial returns the neutral standard material used when an
// ADD_MATERIAL payload leaves fields unset.
func DefaultMaterial(id string) Material {
	name := "Material_" + id
	if id == DefaultMaterialID {
		name = "Default Material"
	}
	return Material{
		ID:        id,
		Name:      name,
		Type:      MaterialStandard,
		Color:     "#ffffff",
		Metalness: 0,
		Roughness: 0.5,
		Opacity:   1,
	}
}
