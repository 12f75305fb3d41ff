package server

import (
	"math"
	"net/http"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
	"github.com/df07/go-diffuse-raytracer/pkg/geometry"
	"github.com/df07/go-diffuse-raytracer/pkg/renderer"
	"github.com/df07/go-diffuse-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType"`
	ShapeIndex   int                    `json:"shapeIndex"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult describes the first object hit by an inspection ray
type InspectResult struct {
	Hit        bool
	HitRecord  *geometry.HitRecord
	Shape      geometry.Shape // The shape that was hit
	ShapeIndex int
}

// inspectPixel casts a ray through the center of a pixel and reports the
// nearest object it hits
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) (InspectResult, error) {
	// No jitter for inspection
	config := sceneObj.Camera
	config.PixelSampling = renderer.SamplingCenter
	camera, err := renderer.NewCamera(config)
	if err != nil {
		return InspectResult{}, err
	}

	ray := camera.GetRay(pixelX, pixelY, core.NewSeededSampler(0))

	result := InspectResult{ShapeIndex: -1}
	closest := math.Inf(1)
	for idx, shape := range sceneObj.World.Shapes() {
		if rec, ok := shape.Hit(ray, core.NewInterval(0, closest)); ok {
			closest = rec.T
			result = InspectResult{Hit: true, HitRecord: rec, Shape: shape, ShapeIndex: idx}
		}
	}
	return result, nil
}

// extractGeometryInfo describes a shape for the inspector
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch s := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64(s.Center)
		properties["radius"] = s.Radius
		return "sphere", properties
	case *geometry.ShapeList:
		properties["count"] = s.Len()
		return "list", properties
	default:
		return "unknown", properties
	}
}

// handleInspect reports what the center ray of a pixel hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sceneName := query.Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}
	width, err := parseIntParam(query, "width", 0, minWidth, maxWidth)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sceneObj, err := s.createScene(sceneName, renderer.CameraConfig{ImageWidth: width})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	x, err := parseIntParam(query, "x", 0, 0, sceneObj.Camera.ImageWidth-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	y, err := parseIntParam(query, "y", 0, 0, sceneObj.Camera.ImageHeight()-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := inspectPixel(sceneObj, x, y)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := InspectResponse{Hit: result.Hit, ShapeIndex: result.ShapeIndex}
	if result.Hit {
		response.GeometryType, response.Properties = extractGeometryInfo(result.Shape)
		response.Point = [3]float64(result.HitRecord.Point)
		response.Normal = [3]float64(result.HitRecord.Normal)
		response.Distance = result.HitRecord.T
		response.FrontFace = result.HitRecord.FrontFace
	}
	writeJSON(w, http.StatusOK, response)
}
