package aeno

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Frame is a finished trace.
type Frame struct {
	JobID   string
	Image   *ImageBuffer
	Elapsed time.Duration
}

// Tracer owns a scene and the settings an interactive client edits, and runs
// traces in the background. Each trace works on a snapshot of the scene and
// settings taken when it is requested, so setters never race a trace.
type Tracer struct {
	mu       sync.Mutex
	scene    *Scene
	settings Settings
	jobID    string
	cancel   context.CancelFunc
	latest   *ImageBuffer
	wg       sync.WaitGroup

	progress float64
	updates  chan Frame
}

func NewTracer(scene *Scene, settings Settings) (*Tracer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Tracer{
		scene:    scene,
		settings: settings,
		updates:  make(chan Frame, 1),
	}, nil
}

// SetScene replaces the scene used by later traces. A trace already running
// keeps the scene it started with. s must not be modified afterwards.
func (t *Tracer) SetScene(s *Scene) {
	t.mu.Lock()
	t.scene = s
	t.mu.Unlock()
}

func (t *Tracer) Settings() Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings
}

// update applies fn to a copy of the settings and keeps the copy only if
// it still validates.
func (t *Tracer) update(fn func(s *Settings)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := t.settings
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	t.settings = next
	return nil
}

func (t *Tracer) SetResolution(width, height int) error {
	return t.update(func(s *Settings) { s.Width, s.Height = width, height })
}

func (t *Tracer) SetMaxDepth(depth int) error {
	return t.update(func(s *Settings) { s.MaxDepth = depth })
}

func (t *Tracer) SetAntialiasing(grid int, jitter bool) error {
	return t.update(func(s *Settings) { s.Antialias, s.Jitter = grid, jitter })
}

func (t *Tracer) SetCameraLookAt(eye, aim, up mgl64.Vec3) error {
	return t.update(func(s *Settings) { s.Eye, s.Aim, s.Up = eye, aim, up })
}

func (t *Tracer) SetCameraPerspective(fovy, aspect, near float64) error {
	return t.update(func(s *Settings) { s.FovY, s.Aspect, s.Near = fovy, aspect, near })
}

// RequestTrace starts a trace of the current scene and settings and returns
// its job id without waiting. A trace still running is cancelled.
func (t *Tracer) RequestTrace() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.scene == nil {
		return "", ErrNoScene
	}
	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	t.jobID = id
	t.cancel = cancel
	t.progress = 0

	scene, settings := t.scene, t.settings
	t.wg.Add(1)
	go t.run(ctx, cancel, id, scene, settings)
	return id, nil
}

func (t *Tracer) run(ctx context.Context, cancel context.CancelFunc, id string, scene *Scene, settings Settings) {
	defer t.wg.Done()
	defer cancel()
	start := time.Now()
	img, err := scene.TraceImage(ctx, settings, func(p float64) {
		t.storeProgress(id, p)
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("aeno: trace %s failed: %v", id, err)
		}
		return
	}
	elapsed := time.Since(start)

	t.mu.Lock()
	if t.jobID != id {
		t.mu.Unlock()
		return
	}
	t.latest = img
	t.cancel = nil
	t.mu.Unlock()

	log.Printf("aeno: trace %s finished %dx%d in %v", id, settings.Width, settings.Height, elapsed)
	t.publish(Frame{JobID: id, Image: img, Elapsed: elapsed})
}

// storeProgress only moves forward and ignores superseded jobs.
func (t *Tracer) storeProgress(id string, p float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.jobID == id && p > t.progress {
		t.progress = p
	}
}

// publish replaces an unread frame rather than blocking the worker.
func (t *Tracer) publish(f Frame) {
	for {
		select {
		case t.updates <- f:
			return
		default:
		}
		select {
		case <-t.updates:
		default:
		}
	}
}

// Progress reports the most recent job and how far it has got, in percent.
func (t *Tracer) Progress() (jobID string, percent float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.jobID, t.progress
}

// Updates delivers each finished frame. Frames nobody reads in time are
// dropped in favour of newer ones.
func (t *Tracer) Updates() <-chan Frame {
	return t.updates
}

// Latest returns the last finished image, or nil.
func (t *Tracer) Latest() *ImageBuffer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest
}

// Close cancels any running trace and waits for it to stop.
func (t *Tracer) Close() {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.mu.Unlock()
	t.wg.Wait()
}
