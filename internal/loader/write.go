package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/scenekit/internal/scene"
)

// Encode renders s in the given format. CUE output wraps the JSON form in a
// top-level "scene" field, which is valid CUE.
func Encode(s *scene.Scene, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(out, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatCUE:
		out, err := json.MarshalIndent(s, "", "\t")
		if err != nil {
			return nil, fmt.Errorf("encode cue: %w", err)
		}
		return append(append([]byte("scene: "), out...), '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// WriteFile writes s to path in the format its extension names.
func WriteFile(path string, s *scene.Scene) error {
	format, ok := FormatFor(path)
	if !ok {
		return &LoadError{Code: ErrCodeFormat, Path: path, Message: "unsupported extension"}
	}
	data, err := Encode(s, format)
	if err != nil {
		return &LoadError{Code: ErrCodeWriteFailed, Path: path, Message: err.Error()}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &LoadError{Code: ErrCodeWriteFailed, Path: path, Message: err.Error()}
	}
	return nil
}
