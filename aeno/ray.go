package aeno

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a homogeneous ray: Origin is a point (w=1) and Direction a vector
// (w=0). Direction is not necessarily unit length and parametric distances are
// measured along it as given.
type Ray struct {
	Origin    mgl64.Vec4
	Direction mgl64.Vec4
	// Shadow rays only need to know whether something is in the way.
	Shadow bool
}

// Point returns a point from a Vec3.
func Point(v mgl64.Vec3) mgl64.Vec4 {
	return v.Vec4(1)
}

// Direction returns a direction from a Vec3.
func Direction(v mgl64.Vec3) mgl64.Vec4 {
	return v.Vec4(0)
}

// At returns Origin + t*Direction.
func (r Ray) At(t float64) mgl64.Vec4 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Transform maps both components of the ray through m.
func (r Ray) Transform(m mgl64.Mat4) Ray {
	return Ray{
		Origin:    m.Mul4x1(r.Origin),
		Direction: m.Mul4x1(r.Direction),
		Shadow:    r.Shadow,
	}
}

// Reflect mirrors v about n: 2(n·v)n - v. n must be unit length; v points
// away from the surface.
func Reflect(v, n mgl64.Vec4) mgl64.Vec4 {
	return n.Mul(2 * n.Dot(v)).Sub(v)
}

// normalize returns v scaled to unit length, or the zero vector when v has
// no length.
func normalize(v mgl64.Vec4) mgl64.Vec4 {
	l := math.Sqrt(v.Dot(v))
	if l == 0 {
		return mgl64.Vec4{}
	}
	return v.Mul(1 / l)
}
