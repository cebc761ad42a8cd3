package aeno

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSetPerspective(t *testing.T) {
	c := NewCamera()
	if err := c.SetPerspective(90, 2, 1); err != nil {
		t.Fatal(err)
	}
	f := c.Frustum
	if !near(f.Top, 1, 1e-12) || !near(f.Bottom, -1, 1e-12) || !near(f.Right, 2, 1e-12) || !near(f.Left, -2, 1e-12) || f.Near != 1 {
		t.Fatalf("frustum wrong: %+v", f)
	}

	before := c.Frustum
	for _, bad := range [][3]float64{{0, 1, 1}, {180, 1, 1}, {45, 0, 1}, {45, 1, 0}, {45, 1, -1}} {
		if err := c.SetPerspective(bad[0], bad[1], bad[2]); !errors.Is(err, ErrInvalidFrustum) {
			t.Fatalf("%v: expected ErrInvalidFrustum, got %v", bad, err)
		}
	}
	if c.Frustum != before {
		t.Fatal("rejected perspective changed the frustum")
	}
	if err := c.SetFrustum(1, -1, 1, -1, 1); !errors.Is(err, ErrInvalidFrustum) {
		t.Fatalf("expected ErrInvalidFrustum, got %v", err)
	}
}

func TestLookAtBasis(t *testing.T) {
	c := NewCamera()
	if err := c.LookAt(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}); err != nil {
		t.Fatal(err)
	}
	if !vecNear(c.N, mgl64.Vec4{0, 0, 1, 0}, 1e-12) || !vecNear(c.U, mgl64.Vec4{1, 0, 0, 0}, 1e-12) || !vecNear(c.V, mgl64.Vec4{0, 1, 0, 0}, 1e-12) {
		t.Fatalf("basis wrong: u=%v v=%v n=%v", c.U, c.V, c.N)
	}
	if !vecNear(c.Eye, mgl64.Vec4{0, 0, 5, 1}, 0) {
		t.Fatalf("eye wrong: %v", c.Eye)
	}

	// an oblique view must still be orthonormal
	if err := c.LookAt(mgl64.Vec3{3, -4, 2}, mgl64.Vec3{1, 1, 0}, mgl64.Vec3{0, 0, 1}); err != nil {
		t.Fatal(err)
	}
	for _, v := range []mgl64.Vec4{c.U, c.V, c.N} {
		if !near(v.Len(), 1, 1e-12) {
			t.Fatalf("basis vector not unit: %v", v)
		}
	}
	if math.Abs(c.U.Dot(c.V)) > 1e-12 || math.Abs(c.U.Dot(c.N)) > 1e-12 || math.Abs(c.V.Dot(c.N)) > 1e-12 {
		t.Fatal("basis not orthogonal")
	}
}

func TestLookAtDegenerate(t *testing.T) {
	c := NewCamera()
	if err := c.LookAt(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}); err != nil {
		t.Fatal(err)
	}
	u, v, n, eye := c.U, c.V, c.N, c.Eye
	if err := c.LookAt(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{}, mgl64.Vec3{0, 0, 3}); !errors.Is(err, ErrDegenerateBasis) {
		t.Fatalf("up parallel to view: expected ErrDegenerateBasis, got %v", err)
	}
	if err := c.LookAt(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{0, 1, 0}); !errors.Is(err, ErrDegenerateBasis) {
		t.Fatalf("eye at aim: expected ErrDegenerateBasis, got %v", err)
	}
	if c.U != u || c.V != v || c.N != n || c.Eye != eye {
		t.Fatal("rejected lookAt changed the camera")
	}
}

func TestSetResolutionRejectsNonPositive(t *testing.T) {
	c := NewCamera()
	if err := c.SetResolution(0, 10); !errors.Is(err, ErrInvalidResolution) {
		t.Fatalf("expected ErrInvalidResolution, got %v", err)
	}
	if err := c.SetResolution(10, -1); !errors.Is(err, ErrInvalidResolution) {
		t.Fatalf("expected ErrInvalidResolution, got %v", err)
	}
	if w, h := c.Resolution(); w != 256 || h != 256 {
		t.Fatalf("resolution changed to %dx%d", w, h)
	}
}

func TestEyeRayThroughCenter(t *testing.T) {
	c := NewCamera()
	if err := c.SetPerspective(90, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.SetResolution(1, 1); err != nil {
		t.Fatal(err)
	}
	r := c.EyeRay(0, 0, 0, 1, nil)
	if !vecNear(r.Direction, c.N.Mul(-1), 1e-12) {
		t.Fatalf("center ray wrong: %v", r.Direction)
	}
	if r.Origin != c.Eye || r.Shadow {
		t.Fatalf("ray origin wrong: %+v", r)
	}
}

func TestEyeRayRowZeroIsBottom(t *testing.T) {
	c := NewCamera()
	if err := c.SetResolution(1, 2); err != nil {
		t.Fatal(err)
	}
	if d := c.EyeRay(0, 0, 0, 1, nil).Direction; d[1] >= 0 {
		t.Fatalf("row 0 should look below center: %v", d)
	}
	if d := c.EyeRay(0, 1, 0, 1, nil).Direction; d[1] <= 0 {
		t.Fatalf("row 1 should look above center: %v", d)
	}
}

func TestEyeRaySubpixelGrid(t *testing.T) {
	c := NewCamera()
	if err := c.SetPerspective(90, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.SetResolution(1, 1); err != nil {
		t.Fatal(err)
	}
	want := [][2]float64{{-0.5, -0.5}, {0.5, -0.5}, {-0.5, 0.5}, {0.5, 0.5}}
	for sub, w := range want {
		d := c.EyeRay(0, 0, sub, 2, nil).Direction
		if !near(d[0], w[0], 1e-12) || !near(d[1], w[1], 1e-12) {
			t.Fatalf("subpixel %d: %v, want %v", sub, d, w)
		}
	}
}

func TestEyeRayJitterStaysInCell(t *testing.T) {
	c := NewCamera()
	if err := c.SetPerspective(90, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.SetResolution(4, 4); err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(1))
	// pixel (2, 1) spans u in [0, 0.5] and v in [-0.5, 0]
	for i := 0; i < 1000; i++ {
		d := c.EyeRay(2, 1, 3, 2, rng).Direction
		if d[0] < 0.25 || d[0] > 0.5 || d[1] < -0.25 || d[1] > 0 {
			t.Fatalf("jittered sample left its cell: %v", d)
		}
	}
}

func TestOrbitPose(t *testing.T) {
	aim, up := OrbitPose(mgl64.Vec3{0, -8, 2}, math.Pi/2, 0)
	if !vec3Near(aim, mgl64.Vec3{0, -7, 2}, 1e-12) {
		t.Fatalf("aim wrong: %v", aim)
	}
	if !vec3Near(up, mgl64.Vec3{0, 0, 1}, 1e-12) {
		t.Fatalf("up wrong: %v", up)
	}
	aim, up = OrbitPose(mgl64.Vec3{}, 0.3, 0.4)
	if math.Abs(aim.Dot(up)) > 1e-12 {
		t.Fatal("up must be perpendicular to the view direction")
	}
}
