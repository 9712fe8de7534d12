// Package loader reads and writes scene documents in JSON, YAML and CUE.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/scenekit/internal/reducer"
	"github.com/roach88/scenekit/internal/scene"
)

// Error codes carried by LoadError.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeFormat      = "E008" // Unsupported file extension
	ErrCodeDecode      = "E009" // Document does not decode into a scene
	ErrCodeIntegrity   = "E010" // Hierarchy or reference violations
)

// LoadError describes why a scene file could not be used.
type LoadError struct {
	Code       string
	Path       string
	Message    string
	Pos        token.Pos // CUE position if available
	Violations []reducer.Violation
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Format is a scene file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".cue":
		return FormatCUE, true
	default:
		return "", false
	}
}

// Option configures loading.
type Option func(*options)

type options struct {
	strict bool
}

// Strict makes integrity violations a LoadError instead of leaving them to
// the caller.
func Strict() Option {
	return func(o *options) { o.strict = true }
}

// LoadFile reads a scene from path, choosing the decoder by extension.
func LoadFile(path string, opts ...Option) (*scene.Scene, error) {
	format, ok := FormatFor(path)
	if !ok {
		return nil, &LoadError{Code: ErrCodeFormat, Path: path, Message: fmt.Sprintf("unsupported extension %q", filepath.Ext(path))}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "file not found"}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Load(data, format, path, opts...)
}

// Load decodes data in the given format. name is used in error messages and
// as the CUE filename.
func Load(data []byte, format Format, name string, opts ...Option) (*scene.Scene, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var (
		s   *scene.Scene
		err error
	)
	switch format {
	case FormatJSON:
		s, err = decodeJSON(data)
	case FormatYAML:
		s, err = decodeYAML(data)
	case FormatCUE:
		s, err = decodeCUE(data, name)
	default:
		return nil, &LoadError{Code: ErrCodeFormat, Path: name, Message: fmt.Sprintf("unsupported format %q", format)}
	}
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			if le.Path == "" {
				le.Path = name
			}
			return nil, le
		}
		return nil, &LoadError{Code: ErrCodeDecode, Path: name, Message: err.Error()}
	}

	normalize(s)

	if o.strict {
		if vs := reducer.CheckIntegrity(s); len(vs) > 0 {
			return nil, &LoadError{
				Code:       ErrCodeIntegrity,
				Path:       name,
				Message:    fmt.Sprintf("%d integrity violation(s), first: %s", len(vs), vs[0]),
				Violations: vs,
			}
		}
	}
	return s, nil
}

func decodeJSON(data []byte) (*scene.Scene, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var s scene.Scene
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return &s, nil
}

func decodeYAML(data []byte) (*scene.Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s scene.Scene
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &s, nil
}

// decodeCUE evaluates the document and decodes its top-level "scene" field.
// CUE constraints in the file are checked before decoding, so a file may
// carry its own schema next to the data.
func decodeCUE(data []byte, name string) (*scene.Scene, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, cueError(err)
	}
	sv := v.LookupPath(cue.ParsePath("scene"))
	if !sv.Exists() {
		return nil, &LoadError{Code: ErrCodeDecode, Message: `missing top-level "scene" field`}
	}
	if err := sv.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(err)
	}
	raw, err := sv.MarshalJSON()
	if err != nil {
		return nil, cueError(err)
	}
	return decodeJSON(raw)
}

// cueError extracts position info from CUE errors.
func cueError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: ErrCodeBuildFailed, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: ErrCodeBuildFailed, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

// normalize fills the fields a hand-written file may leave out.
func normalize(s *scene.Scene) {
	if s.Objects == nil {
		s.Objects = []scene.Object{}
	}
	if s.Materials == nil {
		s.Materials = []scene.Material{}
	}
	if s.Lights == nil {
		s.Lights = []scene.Light{}
	}
	if s.Selection == nil {
		s.Selection = []string{}
	}
	if s.Metadata.Version == "" {
		s.Metadata.Version = scene.SchemaVersion
	}
}
