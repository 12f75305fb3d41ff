package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Decode reads a scene description from r and builds the scene
func Decode(r io.Reader) (*Scene, error) {
	var desc Description
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&desc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return FromDescription(desc)
}

// Encode writes the scene description to w as indented JSON
func Encode(w io.Writer, s *Scene) error {
	desc, err := s.Describe()
	if err != nil {
		return fmt.Errorf("describe scene: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(desc); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}

// Load reads a scene from a JSON file
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes a scene to a JSON file
func Save(path string, s *Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	if err := Encode(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
