package aeno

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Hit represents information about a ray's nearest intersection with the
// scene, plus the shading terms accumulated for it.
type Hit struct {
	// T0 is the parametric distance of the nearest intersection found so
	// far. It is +Inf while Object is nil.
	T0     float64
	Object *Object

	Point      mgl64.Vec4 // world space
	ModelPoint mgl64.Vec4 // model space of Object
	Normal     mgl64.Vec4 // unit, world space, facing the viewer
	View       mgl64.Vec4 // unit, from Point back toward the ray origin

	// Material in effect at the hit point, after pattern substitution.
	Material *Material

	Emissive Color
	Ambient  Color
	Diffuse  Color
	Specular Color
}

var missPoint = mgl64.Vec4{math.Inf(1), 0, 0, 1}

func NewHit() *Hit {
	h := &Hit{}
	h.Clear()
	return h
}

// Clear resets h to the miss state so it can be reused for another ray.
func (h *Hit) Clear() {
	*h = Hit{
		T0:         math.Inf(1),
		Point:      missPoint,
		ModelPoint: missPoint,
	}
}

// Missed reports whether no object has been hit.
func (h *Hit) Missed() bool {
	return h.Object == nil
}

// Color returns the sum of the accumulated shading terms.
func (h *Hit) Color() Color {
	return h.Emissive.Add(h.Ambient).Add(h.Diffuse).Add(h.Specular)
}
