package scene

// Vec3 is a numeric triple used for positions, rotations, scales and sizes.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// V3 builds a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the component-wise sum of v and o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Transform places an object in its parent's space.
type Transform struct {
	Position Vec3 `json:"position" yaml:"position"`
	Rotation Vec3 `json:"rotation" yaml:"rotation"`
	Scale    Vec3 `json:"scale" yaml:"scale"`
}

// IdentityTransform returns zero position, zero rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: V3(1, 1, 1)}
}

// ObjectType classifies scene objects.
type ObjectType string

const (
	ObjectMesh   ObjectType = "mesh"
	ObjectGroup  ObjectType = "group"
	ObjectLight  ObjectType = "light"
	ObjectHelper ObjectType = "helper"
)

// GeometryType names a built-in geometry kind.
type GeometryType string

const (
	GeometryBox      GeometryType = "box"
	GeometrySphere   GeometryType = "sphere"
	GeometryPlane    GeometryType = "plane"
	GeometryCylinder GeometryType = "cylinder"
	GeometryCone     GeometryType = "cone"
	GeometryTorus    GeometryType = "torus"
	GeometryModel    GeometryType = "model"
)

// Geometry is either a reference (ID set) or an inline descriptor.
// It holds no slices, maps or pointers so it is copied by value.
type Geometry struct {
	ID             string       `json:"id,omitempty" yaml:"id,omitempty"`
	Type           GeometryType `json:"type,omitempty" yaml:"type,omitempty"`
	Size           Vec3         `json:"size,omitzero" yaml:"size,omitempty"`
	Radius         float64      `json:"radius,omitempty" yaml:"radius,omitempty"`
	Height         float64      `json:"height,omitempty" yaml:"height,omitempty"`
	WidthSegments  int          `json:"width_segments,omitempty" yaml:"width_segments,omitempty"`
	HeightSegments int          `json:"height_segments,omitempty" yaml:"height_segments,omitempty"`
	RadialSegments int          `json:"radial_segments,omitempty" yaml:"radial_segments,omitempty"`
	URL            string       `json:"url,omitempty" yaml:"url,omitempty"`
}

// IsRef reports whether the geometry points at a shared definition.
func (g Geometry) IsRef() bool {
	return g.ID != "" && g.Type == ""
}

// MaterialType names a shading model.
type MaterialType string

const (
	MaterialStandard  MaterialType = "standard"
	MaterialBasic     MaterialType = "basic"
	MaterialWireframe MaterialType = "wireframe"
	MaterialPhong     MaterialType = "phong"
	MaterialLambert   MaterialType = "lambert"
)

// Material is a full material descriptor stored in Scene.Materials.
type Material struct {
	ID                string       `json:"id" yaml:"id"`
	Name              string       `json:"name" yaml:"name"`
	Type              MaterialType `json:"type" yaml:"type"`
	Color             string       `json:"color" yaml:"color"`
	Metalness         float64      `json:"metalness" yaml:"metalness"`
	Roughness         float64      `json:"roughness" yaml:"roughness"`
	Opacity           float64      `json:"opacity" yaml:"opacity"`
	Transparent       bool         `json:"transparent,omitempty" yaml:"transparent,omitempty"`
	Wireframe         bool         `json:"wireframe,omitempty" yaml:"wireframe,omitempty"`
	Emissive          string       `json:"emissive,omitempty" yaml:"emissive,omitempty"`
	EmissiveIntensity float64      `json:"emissive_intensity,omitempty" yaml:"emissive_intensity,omitempty"`
	Map               string       `json:"map,omitempty" yaml:"map,omitempty"`
	NormalMap         string       `json:"normal_map,omitempty" yaml:"normal_map,omitempty"`
	RoughnessMap      string       `json:"roughness_map,omitempty" yaml:"roughness_map,omitempty"`
	MetalnessMap      string       `json:"metalness_map,omitempty" yaml:"metalness_map,omitempty"`
}

// MaterialSlot is the material assigned to an object: either a reference
// into Scene.Materials (ID) or an inline descriptor.
type MaterialSlot struct {
	ID     string    `json:"id,omitempty" yaml:"id,omitempty"`
	Inline *Material `json:"inline,omitempty" yaml:"inline,omitempty"`
}

// IsRef reports whether the slot references a scene material by id.
func (m MaterialSlot) IsRef() bool {
	return m.Inline == nil && m.ID != ""
}

// Object is a node of the scene hierarchy.
type Object struct {
	ID            string            `json:"id" yaml:"id"`
	Name          string            `json:"name" yaml:"name"`
	Type          ObjectType        `json:"type" yaml:"type"`
	Geometry      *Geometry         `json:"geometry,omitempty" yaml:"geometry,omitempty"`
	Material      *MaterialSlot     `json:"material,omitempty" yaml:"material,omitempty"`
	Transform     Transform         `json:"transform" yaml:"transform"`
	Visible       bool              `json:"visible" yaml:"visible"`
	CastShadow    bool              `json:"cast_shadow" yaml:"cast_shadow"`
	ReceiveShadow bool              `json:"receive_shadow" yaml:"receive_shadow"`
	Parent        string            `json:"parent,omitempty" yaml:"parent,omitempty"`
	Children      []string          `json:"children,omitempty" yaml:"children,omitempty"`
	UserData      map[string]string `json:"user_data,omitempty" yaml:"user_data,omitempty"`
}

// LightType names a light kind.
type LightType string

const (
	LightAmbient     LightType = "ambient"
	LightDirectional LightType = "directional"
	LightPoint       LightType = "point"
	LightSpot        LightType = "spot"
	LightHemisphere  LightType = "hemisphere"
)

// Light is a flat attribute bag; only ID carries an identity invariant.
type Light struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Type        LightType `json:"type" yaml:"type"`
	Color       string    `json:"color" yaml:"color"`
	Intensity   float64   `json:"intensity" yaml:"intensity"`
	Position    *Vec3     `json:"position,omitempty" yaml:"position,omitempty"`
	Target      *Vec3     `json:"target,omitempty" yaml:"target,omitempty"`
	Distance    float64   `json:"distance,omitempty" yaml:"distance,omitempty"`
	Decay       float64   `json:"decay,omitempty" yaml:"decay,omitempty"`
	Angle       float64   `json:"angle,omitempty" yaml:"angle,omitempty"`
	Penumbra    float64   `json:"penumbra,omitempty" yaml:"penumbra,omitempty"`
	GroundColor string    `json:"ground_color,omitempty" yaml:"ground_color,omitempty"`
	CastShadow  bool      `json:"cast_shadow,omitempty" yaml:"cast_shadow,omitempty"`
}

// CameraType selects the projection.
type CameraType string

const (
	CameraPerspective  CameraType = "perspective"
	CameraOrthographic CameraType = "orthographic"
)

// Camera describes the viewpoint. Orthographic bounds are ignored for
// perspective cameras and vice versa for FOV/Aspect.
type Camera struct {
	Type     CameraType `json:"type" yaml:"type"`
	Position Vec3       `json:"position" yaml:"position"`
	Target   Vec3       `json:"target" yaml:"target"`
	FOV      float64    `json:"fov,omitempty" yaml:"fov,omitempty"`
	Aspect   float64    `json:"aspect,omitempty" yaml:"aspect,omitempty"`
	Near     float64    `json:"near,omitempty" yaml:"near,omitempty"`
	Far      float64    `json:"far,omitempty" yaml:"far,omitempty"`
	Left     float64    `json:"left,omitempty" yaml:"left,omitempty"`
	Right    float64    `json:"right,omitempty" yaml:"right,omitempty"`
	Top      float64    `json:"top,omitempty" yaml:"top,omitempty"`
	Bottom   float64    `json:"bottom,omitempty" yaml:"bottom,omitempty"`
}

// Background is the clear colour, texture or HDRI behind the scene.
type Background struct {
	Type  string `json:"type" yaml:"type"` // "color" | "texture" | "hdri"
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Fog configures distance fog.
type Fog struct {
	Type    string  `json:"type" yaml:"type"` // "linear" | "exponential"
	Color   string  `json:"color" yaml:"color"`
	Near    float64 `json:"near,omitempty" yaml:"near,omitempty"`
	Far     float64 `json:"far,omitempty" yaml:"far,omitempty"`
	Density float64 `json:"density,omitempty" yaml:"density,omitempty"`
}

// ShadowCamera bounds the shadow map frustum.
type ShadowCamera struct {
	Near   float64 `json:"near" yaml:"near"`
	Far    float64 `json:"far" yaml:"far"`
	Left   float64 `json:"left" yaml:"left"`
	Right  float64 `json:"right" yaml:"right"`
	Top    float64 `json:"top" yaml:"top"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// ShadowSettings configures shadow mapping.
type ShadowSettings struct {
	Enabled bool          `json:"enabled" yaml:"enabled"`
	Type    string        `json:"type" yaml:"type"` // "basic" | "pcf" | "pcfsoft"
	MapSize int           `json:"map_size" yaml:"map_size"`
	Camera  *ShadowCamera `json:"camera,omitempty" yaml:"camera,omitempty"`
}

// Environment groups background, fog and shadow settings.
type Environment struct {
	Background *Background     `json:"background,omitempty" yaml:"background,omitempty"`
	Fog        *Fog            `json:"fog,omitempty" yaml:"fog,omitempty"`
	Shadows    *ShadowSettings `json:"shadows,omitempty" yaml:"shadows,omitempty"`
}

// Metadata tracks document timestamps (Unix ms) and schema version.
type Metadata struct {
	Created  int64  `json:"created" yaml:"created"`
	Modified int64  `json:"modified" yaml:"modified"`
	Version  string `json:"version" yaml:"version"`
}

// Scene is the complete declarative document.
type Scene struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Objects     []Object    `json:"objects" yaml:"objects"`
	Materials   []Material  `json:"materials" yaml:"materials"`
	Lights      []Light     `json:"lights" yaml:"lights"`
	Camera      Camera      `json:"camera" yaml:"camera"`
	Environment Environment `json:"environment" yaml:"environment"`
	Selection   []string    `json:"selection" yaml:"selection"`
	Metadata    Metadata    `json:"metadata" yaml:"metadata"`
}
