package aeno

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Settings is everything about a trace that is not the scene itself. It is
// copied by value into each trace.
type Settings struct {
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	MaxDepth  int  `json:"maxDepth"`
	Antialias int  `json:"antialias"`
	Jitter    bool `json:"jitter"`

	Eye mgl64.Vec3 `json:"eye"`
	Aim mgl64.Vec3 `json:"aim"`
	Up  mgl64.Vec3 `json:"up"`

	FovY   float64 `json:"fovy"`
	Aspect float64 `json:"aspect"`
	Near   float64 `json:"near"`
}

// DefaultSettings returns a 256x256 single-sample trace with two bounces,
// seen from (0, -8, 2) looking along +y.
func DefaultSettings() Settings {
	eye := mgl64.Vec3{0, -8, 2}
	aim, up := OrbitPose(eye, math.Pi/2, 0)
	return Settings{
		Width:     256,
		Height:    256,
		MaxDepth:  2,
		Antialias: 1,
		Eye:       eye,
		Aim:       aim,
		Up:        up,
		FovY:      45,
		Aspect:    1,
		Near:      1,
	}
}

func (s Settings) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("resolution %dx%d: %w", s.Width, s.Height, ErrInvalidResolution)
	}
	if s.MaxDepth < 0 {
		return fmt.Errorf("depth %d: %w", s.MaxDepth, ErrInvalidDepth)
	}
	if s.Antialias < 1 {
		return fmt.Errorf("antialias %d: %w", s.Antialias, ErrInvalidAntialias)
	}
	_, err := s.Camera()
	return err
}

// Camera builds the camera the settings describe.
func (s Settings) Camera() (*Camera, error) {
	c := NewCamera()
	if err := c.SetPerspective(s.FovY, s.Aspect, s.Near); err != nil {
		return nil, err
	}
	if err := c.LookAt(s.Eye, s.Aim, s.Up); err != nil {
		return nil, err
	}
	if err := c.SetResolution(s.Width, s.Height); err != nil {
		return nil, err
	}
	return c, nil
}

// TraceImage renders the scene. Rows are shared out to one worker per CPU.
// progress, if not nil, receives the completed percentage after every row
// and may be called from several goroutines at once. Cancelling ctx stops
// the workers after their current row and returns ctx.Err().
func (s *Scene) TraceImage(ctx context.Context, settings Settings, progress func(percent float64)) (*ImageBuffer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	cam, err := settings.Camera()
	if err != nil {
		return nil, err
	}
	buf, err := NewImageBuffer(settings.Width, settings.Height)
	if err != nil {
		return nil, err
	}

	workers := runtime.NumCPU()
	if workers > settings.Height {
		workers = settings.Height
	}
	if workers < 1 {
		workers = 1
	}

	grid := settings.Antialias
	samples := grid * grid

	var next, done int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		wid := w
		go func() {
			defer wg.Done()
			var rng *rand.Rand
			if settings.Jitter {
				seed := time.Now().UnixNano() ^ int64(uint64(wid)*0x9e3779b97f4a7c15)
				rng = rand.New(rand.NewSource(seed))
			}
			var hit Hit
			for ctx.Err() == nil {
				y := int(atomic.AddInt64(&next, 1) - 1)
				if y >= settings.Height {
					return
				}
				for x := 0; x < settings.Width; x++ {
					var sum Color
					for sub := 0; sub < samples; sub++ {
						hit.Clear()
						s.Trace(cam.EyeRay(x, y, sub, grid, rng), &hit)
						sum = sum.Add(s.Shade(&hit, settings.MaxDepth))
					}
					buf.Set(x, y, sum.DivScalar(float64(samples)))
				}
				rows := atomic.AddInt64(&done, 1)
				if progress != nil {
					progress(float64(rows) * 100 / float64(settings.Height))
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf.ToInt()
	return buf, nil
}
