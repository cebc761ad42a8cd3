package aeno

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Sphere is the unit sphere centered on the model origin. Use Scale to
// resize it.
type Sphere struct{}

var sphereCenter = mgl64.Vec4{0, 0, 0, 1}

func NewSphere() *Sphere {
	return &Sphere{}
}

// Intersect uses the geometric method and only reports the near root. Rays
// starting inside the sphere miss.
func (s *Sphere) Intersect(r Ray) (float64, bool) {
	toCenter := sphereCenter.Sub(r.Origin)
	l2 := toCenter.Dot(toCenter)
	if l2 <= 1 {
		return 0, false
	}
	tca := r.Direction.Dot(toCenter)
	if tca < 0 {
		return 0, false
	}
	d2 := r.Direction.Dot(r.Direction)
	lm2 := l2 - tca*tca/d2
	if lm2 > 1 {
		return 0, false
	}
	thc2 := 1 - lm2
	return tca/d2 - math.Sqrt(thc2/d2), true
}

func (s *Sphere) Normal(p mgl64.Vec4) mgl64.Vec4 {
	n := p.Sub(sphereCenter)
	n[3] = 0
	return normalize(n)
}
