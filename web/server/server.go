package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-diffuse-raytracer/pkg/renderer"
	"github.com/df07/go-diffuse-raytracer/pkg/scene"
)

// Limits on request parameters
const (
	minWidth   = 16
	maxWidth   = 2000
	maxSamples = 10000
	maxDepth   = 1000
	maxTile    = 512
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string // Directory scanned for JSON scene files
}

// NewServer creates a new web server
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir}
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render-stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the scene files the server can render
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := s.createScene(sceneName, renderer.CameraConfig{})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := map[string]interface{}{
		"scene":      sceneName,
		"camera":     sceneObj.Camera,
		"height":     sceneObj.Camera.ImageHeight(),
		"background": sceneObj.Background,
		"primitives": sceneObj.GetPrimitiveCount(),
		"limits": map[string]interface{}{
			"width":    map[string]int{"min": minWidth, "max": maxWidth},
			"samples":  map[string]int{"min": 1, "max": maxSamples},
			"depth":    map[string]int{"min": 1, "max": maxDepth},
			"tileSize": map[string]int{"min": 0, "max": maxTile},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// createScene builds a built-in scene or one of the files in the scenes
// directory. Arbitrary paths are not accepted.
func (s *Server) createScene(name string, overrides renderer.CameraConfig) (*scene.Scene, error) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		return nil, err
	}
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			if info.ID == name {
				return scene.Create(info.ID, overrides)
			}
		}
	}
	return nil, fmt.Errorf("%q: %w", name, scene.ErrUnknownScene)
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if !(parsed >= min && parsed <= max) {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps scene creation errors to HTTP status codes
func statusFor(err error) int {
	if errors.Is(err, scene.ErrUnknownScene) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
