package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
	"github.com/df07/go-diffuse-raytracer/pkg/raster"
	"github.com/df07/go-diffuse-raytracer/pkg/renderer"
	"github.com/df07/go-diffuse-raytracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene    string  `json:"scene"`    // Scene ID (e.g., "default")
	Width    int     `json:"width"`    // Image width (0 = scene default)
	Samples  int     `json:"samples"`  // Samples per pixel (0 = scene default)
	Depth    int     `json:"depth"`    // Maximum bounce depth (0 = scene default)
	Sampling string  `json:"sampling"` // Pixel sampling pattern (empty = scene default)
	TileSize int     `json:"tileSize"` // Tile size (0 = scanlines)
	Seed     int64   `json:"seed"`     // Base sampler seed
	Gamma    float64 `json:"gamma"`    // Output gamma
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	Tiles          int     `json:"tiles"`
}

// CompleteUpdate is sent when a streamed render finishes
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene"), Sampling: query.Get("sampling")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", 0, 1, maxDepth); err != nil {
		return nil, err
	}
	if req.TileSize, err = parseIntParam(query, "tileSize", renderer.DefaultTileSize, 0, maxTile); err != nil {
		return nil, err
	}
	if req.Gamma, err = parseFloatParam(query, "gamma", raster.SRGBGamma, 0, 10); err != nil {
		return nil, err
	}
	req.Seed = renderer.DefaultSeed
	if value := query.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}

	return req, nil
}

// cameraOverrides returns the camera fields the request changes
func (req *RenderRequest) cameraOverrides() renderer.CameraConfig {
	return renderer.CameraConfig{
		ImageWidth:      req.Width,
		SamplesPerPixel: req.Samples,
		MaxDepth:        req.Depth,
		PixelSampling:   renderer.PixelSampling(req.Sampling),
	}
}

// renderScene renders the scene into a new image
func renderScene(r *http.Request, sceneObj *scene.Scene, req *RenderRequest, logger core.Logger) (*raster.Image, renderer.RenderStats, error) {
	img, err := raster.NewImage(sceneObj.Camera.ImageWidth, sceneObj.Camera.ImageHeight())
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}

	opts := renderer.RenderOptions{
		TileSize:   req.TileSize,
		Seed:       req.Seed,
		Background: sceneObj.Background,
		Logger:     logger,
	}
	stats, err := renderer.Render(r.Context(), sceneObj.Camera, sceneObj.World, img, opts)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	return img, stats, nil
}

// prepareRender parses the request and builds its scene
func (s *Server) prepareRender(r *http.Request) (*RenderRequest, *scene.Scene, int, error) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		return nil, nil, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err)
	}
	sceneObj, err := s.createScene(req.Scene, req.cameraOverrides())
	if err != nil {
		return nil, nil, statusFor(err), err
	}
	return req, sceneObj, http.StatusOK, nil
}

// handleRender renders a scene and responds with the PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, sceneObj, status, err := s.prepareRender(r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	img, stats, err := renderScene(r, sceneObj, req, nil)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("Render error: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := img.EncodePNG(&buf, raster.EncodeOptions{Gamma: req.Gamma}); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

type renderOutcome struct {
	img   *raster.Image
	stats renderer.RenderStats
	err   error
}

// handleRenderStream renders a scene, streaming its progress log as
// server-sent events and finishing with the encoded image
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	req, sceneObj, status, err := s.prepareRender(r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	s.setSSEHeaders(w)

	consoleChan := make(chan ConsoleMessage, 100)
	logger := NewWebLogger(consoleChan)
	startTime := time.Now()

	done := make(chan renderOutcome, 1)
	go func() {
		img, stats, err := renderScene(r, sceneObj, req, logger)
		done <- renderOutcome{img: img, stats: stats, err: err}
	}()

	ctx := r.Context()
	for {
		select {
		case msg := <-consoleChan:
			s.sendConsoleMessage(w, msg)
		case outcome := <-done:
			s.drainConsole(w, consoleChan)
			if outcome.err != nil {
				s.sendSSEError(w, fmt.Sprintf("Render error: %v", outcome.err))
				return
			}
			s.sendComplete(w, req, outcome, startTime)
			return
		case <-ctx.Done():
			// Client went away; the render stops at the next tile or scanline
			return
		}
	}
}

func (s *Server) sendComplete(w http.ResponseWriter, req *RenderRequest, outcome renderOutcome, startTime time.Time) {
	var buf bytes.Buffer
	if err := outcome.img.EncodePNG(&buf, raster.EncodeOptions{Gamma: req.Gamma}); err != nil {
		s.sendSSEError(w, fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	update := CompleteUpdate{
		ImageData: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:     outcome.img.Width(),
		Height:    outcome.img.Height(),
		Stats: Stats{
			TotalPixels:    outcome.stats.TotalPixels,
			TotalSamples:   outcome.stats.TotalSamples,
			AverageSamples: outcome.stats.AverageSamples,
			Tiles:          outcome.stats.Tiles,
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	}
	data, err := json.Marshal(update)
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}
	s.sendSSEEvent(w, "complete", string(data))
}

// drainConsole forwards messages logged before the render finished
func (s *Server) drainConsole(w http.ResponseWriter, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.sendConsoleMessage(w, msg)
		default:
			return
		}
	}
}

func (s *Server) sendConsoleMessage(w http.ResponseWriter, msg ConsoleMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.sendSSEEvent(w, "console", string(data))
}

// setSSEHeaders sets the headers for a server-sent event stream
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}
