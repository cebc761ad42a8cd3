package aeno

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCubeMarch(t *testing.T) {
	o := NewObject(NewCube(), nil)
	h := NewHit()
	o.Intersect(zRay(-5, 1), h)
	if h.Missed() || h.T0 > 4 || h.T0 < 4-marchEpsilon {
		t.Fatalf("t wrong: %.12g", h.T0)
	}
	if !vecNear(h.Normal, mgl64.Vec4{0, 0, -1, 0}, 1e-12) {
		t.Fatalf("normal wrong: %v", h.Normal)
	}

	// parametric distance follows the unnormalized direction
	h.Clear()
	o.Intersect(zRay(-5, 2), h)
	if h.Missed() || !near(h.T0, 2, marchEpsilon) {
		t.Fatalf("t wrong for scaled direction: %.12g", h.T0)
	}
}

func TestMarchMissesAndInside(t *testing.T) {
	o := NewObject(NewCube(), nil)
	h := NewHit()
	o.Intersect(Ray{Origin: mgl64.Vec4{5, 5, 5, 1}, Direction: mgl64.Vec4{1, 0, 0, 0}}, h)
	if !h.Missed() {
		t.Fatal("ray leaving the cube must miss")
	}
	o.Intersect(zRay(0, 1), h)
	if !h.Missed() {
		t.Fatal("ray starting inside must miss")
	}
	// grazing past a corner must terminate
	o.Intersect(Ray{Origin: mgl64.Vec4{1.00001, 1.00001, -5, 1}, Direction: mgl64.Vec4{0, 0, 1, 0}}, h)
}

func TestCylinderSideAndCap(t *testing.T) {
	o := NewObject(NewCylinder(), nil)
	h := NewHit()
	o.Intersect(Ray{Origin: mgl64.Vec4{0, -5, 0, 1}, Direction: mgl64.Vec4{0, 1, 0, 0}}, h)
	if h.Missed() || !near(h.T0, 4, marchEpsilon) {
		t.Fatalf("side t wrong: %.12g", h.T0)
	}
	if !vecNear(h.Normal, mgl64.Vec4{0, -1, 0, 0}, 1e-9) {
		t.Fatalf("side normal wrong: %v", h.Normal)
	}

	h.Clear()
	o.Intersect(zRay(-10, 1), h)
	if h.Missed() || !near(h.T0, 6, marchEpsilon) {
		t.Fatalf("cap t wrong: %.12g", h.T0)
	}
	if !vecNear(h.Normal, mgl64.Vec4{0, 0, -1, 0}, 1e-9) {
		t.Fatalf("cap normal wrong: %v", h.Normal)
	}
}

func TestJackArms(t *testing.T) {
	o := NewObject(NewJack(), nil)
	for _, dir := range []mgl64.Vec4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}} {
		h := NewHit()
		o.Intersect(Ray{Origin: mgl64.Vec4{0, 0, 0, 1}.Sub(dir.Mul(10)), Direction: dir}, h)
		if h.Missed() || !near(h.T0, 6, marchEpsilon) {
			t.Fatalf("arm %v: t wrong: %.12g", dir, h.T0)
		}
		if !vecNear(h.Normal, dir.Mul(-1), 1e-9) {
			t.Fatalf("arm %v: normal wrong: %v", dir, h.Normal)
		}
	}
	// between the arms
	h := NewHit()
	o.Intersect(Ray{Origin: mgl64.Vec4{2.5, 2.5, -10, 1}, Direction: mgl64.Vec4{0, 0, 1, 0}}, h)
	if !h.Missed() {
		t.Fatalf("expected miss between arms, t=%g", h.T0)
	}
}

func TestSuperquadricSphereCase(t *testing.T) {
	o := NewObject(NewSuperquadric(1, 1), nil)
	h := NewHit()
	o.Intersect(zRay(-5, 1), h)
	if h.Missed() || !near(h.T0, 4, 1e-3) {
		t.Fatalf("t wrong: %.12g", h.T0)
	}
	if !vecNear(h.Normal, mgl64.Vec4{0, 0, -1, 0}, 1e-3) {
		t.Fatalf("normal wrong: %v", h.Normal)
	}
}

func TestCombinators(t *testing.T) {
	ball := FieldFunc(func(p mgl64.Vec3) float64 { return p.Len() - 1 })
	box := Box{Half: mgl64.Vec3{1, 1, 1}}
	p := mgl64.Vec3{0, 0, 3}
	if d := (Union{ball, box}).Distance(p); !near(d, 2, 1e-12) {
		t.Fatalf("union distance %g", d)
	}
	if d := (Intersection{ball, box}).Distance(p); !near(d, 2, 1e-12) {
		t.Fatalf("intersection distance %g", d)
	}
	// a ball with the unit box carved out is hollow at the origin
	hollow := Difference{Base: FieldFunc(func(p mgl64.Vec3) float64 { return p.Len() - 2 }), Cut: box}
	if d := hollow.Distance(mgl64.Vec3{}); d <= 0 {
		t.Fatalf("origin should be outside the difference, d=%g", d)
	}
	n := gradient(ball, mgl64.Vec3{0, 1, 0})
	if !vec3Near(n, mgl64.Vec3{0, 1, 0}, 1e-6) {
		t.Fatalf("gradient normal wrong: %v", n)
	}
}
