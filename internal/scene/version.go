package scene

// Version constants for the scene schema.
const (
	// SchemaVersion is stamped into Metadata.Version of new scenes.
	SchemaVersion = "2.1"

	// DefaultMaterialID is the id of the material every default scene carries.
	DefaultMaterialID = "default"
)
