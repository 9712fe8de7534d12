package action

import "github.com/roach88/scenekit/internal/scene"

// TransformPatch supplies some or all transform components. Components left
// nil resolve to the identity transform, so a patch always describes a whole
// transform.
type TransformPatch struct {
	Position *scene.Vec3 `json:"position,omitempty"`
	Rotation *scene.Vec3 `json:"rotation,omitempty"`
	Scale    *scene.Vec3 `json:"scale,omitempty"`
}

// Resolve fills unspecified components from the identity transform.
func (p TransformPatch) Resolve() scene.Transform {
	t := scene.IdentityTransform()
	if p.Position != nil {
		t.Position = *p.Position
	}
	if p.Rotation != nil {
		t.Rotation = *p.Rotation
	}
	if p.Scale != nil {
		t.Scale = *p.Scale
	}
	return t
}

// ObjectPatch carries the object fields an action supplies; nil means
// "not supplied". Hierarchy fields are deliberately absent: parent/children
// only change through MoveObject and ReorderChildren.
type ObjectPatch struct {
	Name          *string             `json:"name,omitempty"`
	Type          *scene.ObjectType   `json:"type,omitempty"`
	Geometry      *scene.Geometry     `json:"geometry,omitempty"`
	Material      *scene.MaterialSlot `json:"material,omitempty"`
	Transform     *TransformPatch     `json:"transform,omitempty"`
	Visible       *bool               `json:"visible,omitempty"`
	CastShadow    *bool               `json:"cast_shadow,omitempty"`
	ReceiveShadow *bool               `json:"receive_shadow,omitempty"`
	UserData      map[string]string   `json:"user_data,omitempty"`
}

// Apply returns o with the supplied fields replaced. The result shares no
// mutable state with the patch.
func (p ObjectPatch) Apply(o scene.Object) scene.Object {
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.Type != nil {
		o.Type = *p.Type
	}
	if p.Geometry != nil {
		g := *p.Geometry
		o.Geometry = &g
	}
	if p.Material != nil {
		m := p.Material.Clone()
		o.Material = &m
	}
	if p.Transform != nil {
		o.Transform = p.Transform.Resolve()
	}
	if p.Visible != nil {
		o.Visible = *p.Visible
	}
	if p.CastShadow != nil {
		o.CastShadow = *p.CastShadow
	}
	if p.ReceiveShadow != nil {
		o.ReceiveShadow = *p.ReceiveShadow
	}
	if p.UserData != nil {
		o.UserData = make(map[string]string, len(p.UserData))
		for k, v := range p.UserData {
			o.UserData[k] = v
		}
	}
	return o
}

// MaterialPatch carries the material fields an action supplies.
type MaterialPatch struct {
	Name              *string             `json:"name,omitempty"`
	Type              *scene.MaterialType `json:"type,omitempty"`
	Color             *string             `json:"color,omitempty"`
	Metalness         *float64            `json:"metalness,omitempty"`
	Roughness         *float64            `json:"roughness,omitempty"`
	Opacity           *float64            `json:"opacity,omitempty"`
	Transparent       *bool               `json:"transparent,omitempty"`
	Wireframe         *bool               `json:"wireframe,omitempty"`
	Emissive          *string             `json:"emissive,omitempty"`
	EmissiveIntensity *float64            `json:"emissive_intensity,omitempty"`
	Map               *string             `json:"map,omitempty"`
	NormalMap         *string             `json:"normal_map,omitempty"`
	RoughnessMap      *string             `json:"roughness_map,omitempty"`
	MetalnessMap      *string             `json:"metalness_map,omitempty"`
}

// Apply returns m with the supplied fields replaced.
func (p MaterialPatch) Apply(m scene.Material) scene.Material {
	setIf(&m.Name, p.Name)
	setIf(&m.Type, p.Type)
	setIf(&m.Color, p.Color)
	setIf(&m.Metalness, p.Metalness)
	setIf(&m.Roughness, p.Roughness)
	setIf(&m.Opacity, p.Opacity)
	setIf(&m.Transparent, p.Transparent)
	setIf(&m.Wireframe, p.Wireframe)
	setIf(&m.Emissive, p.Emissive)
	setIf(&m.EmissiveIntensity, p.EmissiveIntensity)
	setIf(&m.Map, p.Map)
	setIf(&m.NormalMap, p.NormalMap)
	setIf(&m.RoughnessMap, p.RoughnessMap)
	setIf(&m.MetalnessMap, p.MetalnessMap)
	return m
}

// LightPatch carries the light fields an action supplies.
type LightPatch struct {
	Name        *string          `json:"name,omitempty"`
	Type        *scene.LightType `json:"type,omitempty"`
	Color       *string          `json:"color,omitempty"`
	Intensity   *float64         `json:"intensity,omitempty"`
	Position    *scene.Vec3      `json:"position,omitempty"`
	Target      *scene.Vec3      `json:"target,omitempty"`
	Distance    *float64         `json:"distance,omitempty"`
	Decay       *float64         `json:"decay,omitempty"`
	Angle       *float64         `json:"angle,omitempty"`
	Penumbra    *float64         `json:"penumbra,omitempty"`
	GroundColor *string          `json:"ground_color,omitempty"`
	CastShadow  *bool            `json:"cast_shadow,omitempty"`
}

// Apply returns l with the supplied fields replaced.
func (p LightPatch) Apply(l scene.Light) scene.Light {
	setIf(&l.Name, p.Name)
	setIf(&l.Type, p.Type)
	setIf(&l.Color, p.Color)
	setIf(&l.Intensity, p.Intensity)
	if p.Position != nil {
		v := *p.Position
		l.Position = &v
	}
	if p.Target != nil {
		v := *p.Target
		l.Target = &v
	}
	setIf(&l.Distance, p.Distance)
	setIf(&l.Decay, p.Decay)
	setIf(&l.Angle, p.Angle)
	setIf(&l.Penumbra, p.Penumbra)
	setIf(&l.GroundColor, p.GroundColor)
	setIf(&l.CastShadow, p.CastShadow)
	return l
}

// CameraPatch carries the camera fields an action supplies.
type CameraPatch struct {
	Type     *scene.CameraType `json:"type,omitempty"`
	Position *scene.Vec3       `json:"position,omitempty"`
	Target   *scene.Vec3       `json:"target,omitempty"`
	FOV      *float64          `json:"fov,omitempty"`
	Aspect   *float64          `json:"aspect,omitempty"`
	Near     *float64          `json:"near,omitempty"`
	Far      *float64          `json:"far,omitempty"`
	Left     *float64          `json:"left,omitempty"`
	Right    *float64          `json:"right,omitempty"`
	Top      *float64          `json:"top,omitempty"`
	Bottom   *float64          `json:"bottom,omitempty"`
}

// Apply returns c with the supplied fields replaced.
func (p CameraPatch) Apply(c scene.Camera) scene.Camera {
	setIf(&c.Type, p.Type)
	setIf(&c.Position, p.Position)
	setIf(&c.Target, p.Target)
	setIf(&c.FOV, p.FOV)
	setIf(&c.Aspect, p.Aspect)
	setIf(&c.Near, p.Near)
	setIf(&c.Far, p.Far)
	setIf(&c.Left, p.Left)
	setIf(&c.Right, p.Right)
	setIf(&c.Top, p.Top)
	setIf(&c.Bottom, p.Bottom)
	return c
}

// EnvironmentPatch replaces whichever environment sections it supplies.
type EnvironmentPatch struct {
	Background *scene.Background     `json:"background,omitempty"`
	Fog        *scene.Fog            `json:"fog,omitempty"`
	Shadows    *scene.ShadowSettings `json:"shadows,omitempty"`
}

// Apply returns a copy of e with the supplied sections replaced. Sections are
// copied so the result never aliases the patch.
func (p EnvironmentPatch) Apply(e scene.Environment) scene.Environment {
	supplied := scene.Environment{
		Background: p.Background,
		Fog:        p.Fog,
		Shadows:    p.Shadows,
	}.Clone()

	out := e
	if supplied.Background != nil {
		out.Background = supplied.Background
	}
	if supplied.Fog != nil {
		out.Fog = supplied.Fog
	}
	if supplied.Shadows != nil {
		out.Shadows = supplied.Shadows
	}
	return out
}

// IsEmpty reports whether the patch supplies nothing.
func (p EnvironmentPatch) IsEmpty() bool {
	return p.Background == nil && p.Fog == nil && p.Shadows == nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Ptr returns a pointer to v, for building patches in code.
func Ptr[T any](v T) *T {
	return &v
}
