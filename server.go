package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"regexp"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/netisu/melody-tracer/aeno"
)

// hashPattern limits the object keys a client can make us write.
var hashPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// SceneCache is a thread-safe cache of scene descriptions fetched from the
// CDN. Failed fetches are cached too so a bad name is not retried.
type SceneCache struct {
	mu         sync.RWMutex
	scenes     map[string]*aeno.SceneConfig
	httpClient *http.Client
}

func NewSceneCache(client *http.Client) *SceneCache {
	return &SceneCache{
		scenes:     make(map[string]*aeno.SceneConfig),
		httpClient: client,
	}
}

// GetScene fetches a scene from the cache or loads it from the URL if not present.
func (c *SceneCache) GetScene(url string) *aeno.SceneConfig {
	c.mu.RLock()
	cfg, ok := c.scenes[url]
	c.mu.RUnlock()
	if ok {
		return cfg
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Double check after acquiring lock
	if cfg, ok = c.scenes[url]; ok {
		return cfg
	}

	resp, err := c.httpClient.Get(url)
	if err != nil || resp.StatusCode != http.StatusOK {
		log.Printf("Warning: Scene inaccessible at %s", url)
		c.scenes[url] = nil
		if resp != nil {
			resp.Body.Close()
		}
		return nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Warning: Failed to read scene from %s: %v", url, err)
		c.scenes[url] = nil
		return nil
	}
	parsed, err := aeno.ParseScene(data)
	if err != nil {
		log.Printf("Warning: Failed to parse scene from %s: %v", url, err)
		c.scenes[url] = nil
		return nil
	}
	c.scenes[url] = &parsed
	return &parsed
}

// Holds shared dependencies like config, S3 client, cache and the
// interactive tracer.
type Server struct {
	config     *Config
	s3Uploader s3iface.S3API
	cache      *SceneCache
	httpClient *http.Client
	tracer     *aeno.Tracer
}

func NewServer(cfg *Config, httpClient *http.Client, tracer *aeno.Tracer) *Server {
	return &Server{
		config:     cfg,
		cache:      NewSceneCache(httpClient),
		httpClient: httpClient,
		tracer:     tracer,
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRender)
	mux.HandleFunc("/settings", s.handleSettings)
	mux.HandleFunc("/scene", s.handleScene)
	mux.HandleFunc("/trace", s.handleTrace)
	mux.HandleFunc("/progress", s.handleProgress)
	mux.HandleFunc("/image", s.handleImage)
	return mux
}

func (s *Server) authorized(w http.ResponseWriter, r *http.Request) bool {
	if s.config.PostKey != "" && r.Header.Get("Aeo-Access-Key") != s.config.PostKey {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// --- Request Type Identifier ---
type RenderRequestType struct {
	RenderType string `json:"RenderType"`
}

// SceneEvent renders an inline scene or one stored on the CDN.
type SceneEvent struct {
	Hash      string            `json:"Hash"`
	SceneName string            `json:"SceneName"`
	Scene     *aeno.SceneConfig `json:"Scene"`
	// Resolution, when set, overrides the scene's own square size.
	Resolution int `json:"Resolution"`
}

type PresetEvent struct {
	Hash       string `json:"Hash"`
	Preset     string `json:"Preset"`
	Resolution int    `json:"Resolution"`
}

// --- Central HTTP Handler ---
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Peek at the RenderType
	var reqType RenderRequestType
	if err := json.Unmarshal(body, &reqType); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	log.Printf("Received RenderType: %s", reqType.RenderType)

	switch reqType.RenderType {
	case "scene":
		var e SceneEvent
		if err := json.Unmarshal(body, &e); err != nil {
			http.Error(w, "Invalid scene render body", http.StatusBadRequest)
			return
		}
		s.handleSceneRender(w, r, e)
	case "preset":
		var e PresetEvent
		if err := json.Unmarshal(body, &e); err != nil {
			http.Error(w, "Invalid preset render body", http.StatusBadRequest)
			return
		}
		cfg, err := aeno.Preset(e.Preset)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.handleSceneRender(w, r, SceneEvent{Hash: e.Hash, Scene: &cfg, Resolution: e.Resolution})
	default:
		http.Error(w, "Unknown RenderType", http.StatusBadRequest)
	}
}

func (s *Server) handleSceneRender(w http.ResponseWriter, r *http.Request, e SceneEvent) {
	start := time.Now()
	if !hashPattern.MatchString(e.Hash) {
		http.Error(w, "Invalid Hash", http.StatusBadRequest)
		return
	}

	cfg := e.Scene
	if cfg == nil && e.SceneName != "" {
		if !hashPattern.MatchString(e.SceneName) {
			http.Error(w, "Invalid SceneName", http.StatusBadRequest)
			return
		}
		cfg = s.cache.GetScene(fmt.Sprintf("%s/scenes/%s.json", s.config.CDNURL, e.SceneName))
	}
	if cfg == nil {
		http.Error(w, "No scene to render", http.StatusBadRequest)
		return
	}

	scene, settings, err := cfg.Build()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if e.Resolution != 0 {
		settings.Width, settings.Height = e.Resolution, e.Resolution
		settings.Aspect = 1
	}
	if err := checkLimits(settings); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	img, err := s.runRenderWithTimeout(scene, settings)
	if err != nil {
		log.Printf("Scene render failed: %v", err)
		http.Error(w, "Render failed", http.StatusGatewayTimeout)
		return
	}

	full, err := img.PNG()
	if err != nil {
		http.Error(w, "Encode failed", http.StatusInternalServerError)
		return
	}
	preview, err := encodePNG(img.Thumbnail(PreviewSize, PreviewSize))
	if err != nil {
		http.Error(w, "Encode failed", http.StatusInternalServerError)
		return
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, up := range []struct {
		data []byte
		key  string
	}{
		{full, path.Join("renders", e.Hash+".png")},
		{preview, path.Join("renders", e.Hash+"_preview.png")},
	} {
		wg.Add(1)
		go func(i int, data []byte, key string) {
			defer wg.Done()
			errs[i] = s.uploadToS3(r.Context(), data, key)
		}(i, up.data, up.key)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			log.Printf("Scene upload failed: %v", err)
			http.Error(w, "Upload failed", http.StatusInternalServerError)
			return
		}
	}

	log.Printf("Scene render %s finished in %v", e.Hash, time.Since(start))
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Scene processed.")
}

func checkLimits(s aeno.Settings) error {
	if s.Width > MaxResolution || s.Height > MaxResolution {
		return fmt.Errorf("resolution %dx%d exceeds %d", s.Width, s.Height, MaxResolution)
	}
	if s.MaxDepth > MaxDepth {
		return fmt.Errorf("depth %d exceeds %d", s.MaxDepth, MaxDepth)
	}
	if s.Antialias > MaxAntialias {
		return fmt.Errorf("antialias %d exceeds %d", s.Antialias, MaxAntialias)
	}
	return nil
}

func (s *Server) runRenderWithTimeout(scene *aeno.Scene, settings aeno.Settings) (*aeno.ImageBuffer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), RenderTimeout)
	defer cancel()

	type result struct {
		img *aeno.ImageBuffer
		err error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{nil, fmt.Errorf("panic in renderer: %v", r)}
			}
		}()
		img, err := scene.TraceImage(ctx, settings, nil)
		resChan <- result{img: img, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("render timeout")
	case res := <-resChan:
		return res.img, res.err
	}
}

// SettingsRequest changes the interactive tracer. Every field is optional.
type SettingsRequest struct {
	Width     *int        `json:"width"`
	Height    *int        `json:"height"`
	MaxDepth  *int        `json:"maxDepth"`
	Antialias *int        `json:"antialias"`
	Jitter    *bool       `json:"jitter"`
	Eye       *mgl64.Vec3 `json:"eye"`
	Aim       *mgl64.Vec3 `json:"aim"`
	Up        *mgl64.Vec3 `json:"up"`
	// Yaw and Pitch, in degrees, replace Aim and Up.
	Yaw    *float64 `json:"yaw"`
	Pitch  *float64 `json:"pitch"`
	FovY   *float64 `json:"fovy"`
	Aspect *float64 `json:"aspect"`
	Near   *float64 `json:"near"`
}

// apply stops at the first rejected setting; earlier ones stay applied.
func (req SettingsRequest) apply(t *aeno.Tracer) error {
	cur := t.Settings()

	if req.Width != nil || req.Height != nil {
		w, h := cur.Width, cur.Height
		if req.Width != nil {
			w = *req.Width
		}
		if req.Height != nil {
			h = *req.Height
		}
		if w > MaxResolution || h > MaxResolution {
			return fmt.Errorf("resolution %dx%d exceeds %d", w, h, MaxResolution)
		}
		if err := t.SetResolution(w, h); err != nil {
			return err
		}
	}
	if req.MaxDepth != nil {
		if *req.MaxDepth > MaxDepth {
			return fmt.Errorf("depth %d exceeds %d", *req.MaxDepth, MaxDepth)
		}
		if err := t.SetMaxDepth(*req.MaxDepth); err != nil {
			return err
		}
	}
	if req.Antialias != nil || req.Jitter != nil {
		grid, jitter := cur.Antialias, cur.Jitter
		if req.Antialias != nil {
			grid = *req.Antialias
		}
		if req.Jitter != nil {
			jitter = *req.Jitter
		}
		if grid > MaxAntialias {
			return fmt.Errorf("antialias %d exceeds %d", grid, MaxAntialias)
		}
		if err := t.SetAntialiasing(grid, jitter); err != nil {
			return err
		}
	}
	if req.Eye != nil || req.Aim != nil || req.Up != nil || req.Yaw != nil || req.Pitch != nil {
		eye, aim, up := cur.Eye, cur.Aim, cur.Up
		if req.Eye != nil {
			eye = *req.Eye
		}
		if req.Yaw != nil || req.Pitch != nil {
			var yaw, pitch float64 = 90, 0
			if req.Yaw != nil {
				yaw = *req.Yaw
			}
			if req.Pitch != nil {
				pitch = *req.Pitch
			}
			aim, up = aeno.OrbitPose(eye, mgl64.DegToRad(yaw), mgl64.DegToRad(pitch))
		}
		if req.Aim != nil {
			aim = *req.Aim
		}
		if req.Up != nil {
			up = *req.Up
		}
		if err := t.SetCameraLookAt(eye, aim, up); err != nil {
			return err
		}
	}
	if req.FovY != nil || req.Aspect != nil || req.Near != nil {
		fovy, aspect, near := cur.FovY, cur.Aspect, cur.Near
		if req.FovY != nil {
			fovy = *req.FovY
		}
		if req.Aspect != nil {
			aspect = *req.Aspect
		}
		if req.Near != nil {
			near = *req.Near
		}
		if err := t.SetCameraPerspective(fovy, aspect, near); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	var req SettingsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize)).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := req.apply(s.tracer); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.tracer.Settings())
}

// SceneRequest picks the scene the interactive tracer renders: a preset, a
// scene stored on the CDN, or an inline description, in that order.
type SceneRequest struct {
	Preset    string            `json:"preset"`
	SceneName string            `json:"sceneName"`
	Scene     *aeno.SceneConfig `json:"scene"`
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	var req SceneRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize)).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	cfg := req.Scene
	switch {
	case req.Preset != "":
		preset, err := aeno.Preset(req.Preset)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cfg = &preset
	case req.SceneName != "":
		if !hashPattern.MatchString(req.SceneName) {
			http.Error(w, "Invalid sceneName", http.StatusBadRequest)
			return
		}
		cfg = s.cache.GetScene(fmt.Sprintf("%s/scenes/%s.json", s.config.CDNURL, req.SceneName))
	}
	if cfg == nil {
		http.Error(w, "No scene to load", http.StatusBadRequest)
		return
	}

	scene, _, err := cfg.Build()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.tracer.SetScene(scene)
	log.Printf("Loaded scene %q with %d objects", scene.Name, len(scene.Objects))
	writeJSON(w, http.StatusOK, map[string]interface{}{"name": scene.Name, "objects": len(scene.Objects)})
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	id, err := s.tracer.RequestTrace()
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"job": id})
}

type ProgressResponse struct {
	Job     string  `json:"job"`
	Percent float64 `json:"percent"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	job, pct := s.tracer.Progress()
	writeJSON(w, http.StatusOK, ProgressResponse{Job: job, Percent: pct})
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	img := s.tracer.Latest()
	if img == nil {
		http.Error(w, "No image yet", http.StatusNotFound)
		return
	}
	data, err := img.PNG()
	if err != nil {
		http.Error(w, "Encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}
