package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-diffuse-raytracer/pkg/renderer"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, accepted by Create
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // Display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to scene file (json type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete list of scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const (
	builtInGroup = "Built-in Scenes"
	jsonGroup    = "Scene Files"
)

var builtInScenes = []SceneInfo{
	{
		ID:          "default",
		Name:        "Default Scene",
		DisplayName: "Default Scene",
		Description: "Single sphere resting on a ground sphere",
		Group:       builtInGroup,
		Type:        "builtin",
	},
	{
		ID:          "sphere-grid",
		Name:        "Sphere Grid",
		DisplayName: "Sphere Grid",
		Description: "Grid of small spheres receding into the distance",
		Group:       builtInGroup,
		Type:        "builtin",
	},
	{
		ID:          "empty",
		Name:        "Empty",
		DisplayName: "Empty",
		Description: "Nothing but sky",
		Group:       builtInGroup,
		Type:        "builtin",
	},
}

// Create builds a scene by built-in ID or by path to a JSON scene file.
// The first camera override, if any, is merged onto the scene's camera.
func Create(name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	var s *Scene
	switch name {
	case "default", "basic":
		s = NewDefaultScene(cameraOverrides...)
	case "sphere-grid", "spheres":
		s = NewSphereGridScene(cameraOverrides...)
	case "empty":
		s = NewEmptyScene(cameraOverrides...)
	default:
		if !strings.EqualFold(filepath.Ext(name), ".json") {
			return nil, fmt.Errorf("%q: %w", name, ErrUnknownScene)
		}
		loaded, err := Load(name)
		if err != nil {
			return nil, err
		}
		s = loaded
		s.Camera = applyOverrides(s.Camera, cameraOverrides)
	}

	if err := s.Camera.Validate(); err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}
	return s, nil
}

// ListJSONScenes scans dir for scene files. A missing directory yields an empty list.
func ListJSONScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseJSONMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseJSONMetadata reads the name and summary of a scene file without
// building the scene. A missing file keeps the values derived from the filename.
func ParseJSONMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          filePath,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       jsonGroup,
		Type:        "json",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return sceneInfo, nil
	}

	var meta struct {
		Name    string `json:"name"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return sceneInfo, fmt.Errorf("decode scene metadata: %w", err)
	}

	if meta.Name != "" {
		sceneInfo.Name = meta.Name
		sceneInfo.DisplayName = meta.Name
	}
	sceneInfo.Description = meta.Summary

	return sceneInfo, nil
}

// ListAllScenes returns the built-in scenes followed by the scene files in dir
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtInGroup,
		Scenes: append([]SceneInfo(nil), builtInScenes...),
	})

	jsonScenes, err := ListJSONScenes(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}
	if len(jsonScenes) > 0 {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   jsonGroup,
			Scenes: jsonScenes,
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "two-spheres" -> "Two Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
