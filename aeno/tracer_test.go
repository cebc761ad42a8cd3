package aeno

import (
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

func smallTracer(t *testing.T) *Tracer {
	t.Helper()
	cfg, err := Preset("spheres")
	if err != nil {
		t.Fatal(err)
	}
	s, settings, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	settings.Width, settings.Height = 8, 8
	tr, err := NewTracer(s, settings)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(tr.Close)
	return tr
}

func waitFrame(t *testing.T, tr *Tracer) Frame {
	t.Helper()
	select {
	case f := <-tr.Updates():
		return f
	case <-time.After(30 * time.Second):
		t.Fatal("no frame delivered")
	}
	return Frame{}
}

func TestTracerRequestTrace(t *testing.T) {
	tr := smallTracer(t)
	id, err := tr.RequestTrace()
	if err != nil {
		t.Fatal(err)
	}
	f := waitFrame(t, tr)
	if f.JobID != id || f.Image == nil || f.Image.Width != 8 {
		t.Fatalf("frame wrong: %+v", f)
	}
	job, pct := tr.Progress()
	if job != id || pct != 100 {
		t.Fatalf("progress %s %g", job, pct)
	}
	if tr.Latest() != f.Image {
		t.Fatal("latest image not updated")
	}
}

func TestTracerSupersedesRunningJob(t *testing.T) {
	tr := smallTracer(t)
	if err := tr.SetResolution(300, 300); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetAntialiasing(3, false); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.RequestTrace(); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetResolution(4, 2); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetAntialiasing(1, false); err != nil {
		t.Fatal(err)
	}
	id, err := tr.RequestTrace()
	if err != nil {
		t.Fatal(err)
	}
	f := waitFrame(t, tr)
	if f.JobID != id || f.Image.Width != 4 || f.Image.Height != 2 {
		t.Fatalf("got frame %s %dx%d, want the second job", f.JobID, f.Image.Width, f.Image.Height)
	}
}

func TestTracerSettersValidate(t *testing.T) {
	tr := smallTracer(t)
	before := tr.Settings()

	if err := tr.SetResolution(0, 5); !errors.Is(err, ErrInvalidResolution) {
		t.Fatalf("expected ErrInvalidResolution, got %v", err)
	}
	if err := tr.SetMaxDepth(-1); !errors.Is(err, ErrInvalidDepth) {
		t.Fatalf("expected ErrInvalidDepth, got %v", err)
	}
	if err := tr.SetAntialiasing(0, true); !errors.Is(err, ErrInvalidAntialias) {
		t.Fatalf("expected ErrInvalidAntialias, got %v", err)
	}
	if err := tr.SetCameraLookAt(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1}); !errors.Is(err, ErrDegenerateBasis) {
		t.Fatalf("expected ErrDegenerateBasis, got %v", err)
	}
	if err := tr.SetCameraPerspective(0, 1, 1); !errors.Is(err, ErrInvalidFrustum) {
		t.Fatalf("expected ErrInvalidFrustum, got %v", err)
	}
	if tr.Settings() != before {
		t.Fatal("rejected setters changed the settings")
	}

	if err := tr.SetMaxDepth(3); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetCameraPerspective(60, 1.5, 0.5); err != nil {
		t.Fatal(err)
	}
	s := tr.Settings()
	if s.MaxDepth != 3 || s.FovY != 60 || s.Aspect != 1.5 || s.Near != 0.5 {
		t.Fatalf("settings not applied: %+v", s)
	}
}

func TestTracerWithoutScene(t *testing.T) {
	tr, err := NewTracer(nil, DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.RequestTrace(); !errors.Is(err, ErrNoScene) {
		t.Fatalf("expected ErrNoScene, got %v", err)
	}
	if tr.Latest() != nil {
		t.Fatal("no image expected")
	}
	if _, err := NewTracer(NewScene(), Settings{}); err == nil {
		t.Fatal("zero settings must be rejected")
	}
}

func TestTracerSetScene(t *testing.T) {
	settings := DefaultSettings()
	settings.Width, settings.Height = 4, 4
	tr, err := NewTracer(nil, settings)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(tr.Close)
	if _, err := tr.RequestTrace(); !errors.Is(err, ErrNoScene) {
		t.Fatalf("expected ErrNoScene, got %v", err)
	}

	s := NewScene()
	s.Sky = Color{0.25, 0.5, 0.75}
	tr.SetScene(s)
	id, err := tr.RequestTrace()
	if err != nil {
		t.Fatal(err)
	}
	f := waitFrame(t, tr)
	if f.JobID != id {
		t.Fatalf("frame for job %s, want %s", f.JobID, id)
	}
	// an empty scene shows only sky
	if got := f.Image.At(1, 1); !got.ApproxEqual(s.Sky, 1e-12) {
		t.Fatalf("pixel = %v, want sky %v", got, s.Sky)
	}
}
