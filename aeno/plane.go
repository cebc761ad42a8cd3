package aeno

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var planeNormal = mgl64.Vec4{0, 0, 1, 0}

// intersectXY returns where r crosses the model plane z = 0.
func intersectXY(r Ray) (float64, bool) {
	if r.Direction[2] == 0 {
		return 0, false
	}
	t := -r.Origin[2] / r.Direction[2]
	return t, t >= 0
}

// Plane is the infinite z = 0 plane of model space. With a positive
// LineWidth it is drawn as a grid: cells within LineWidth of a multiple of
// XGap or YGap use LineMaterial.
type Plane struct {
	XGap, YGap   float64
	LineWidth    float64
	LineMaterial *Material
}

// NewGrid returns the ground grid: unit cells with black rubber lines.
func NewGrid() *Plane {
	lines, _ := LookupMaterial("black_rubber")
	return &Plane{XGap: 1, YGap: 1, LineWidth: 0.1, LineMaterial: lines}
}

func (p *Plane) Intersect(r Ray) (float64, bool) {
	return intersectXY(r)
}

func (p *Plane) Normal(mgl64.Vec4) mgl64.Vec4 {
	return planeNormal
}

func (p *Plane) MaterialAt(pt mgl64.Vec4, base *Material) *Material {
	if p.LineWidth <= 0 || p.LineMaterial == nil {
		return base
	}
	if onLine(pt[0], p.XGap, p.LineWidth) || onLine(pt[1], p.YGap, p.LineWidth) {
		return p.LineMaterial
	}
	return base
}

func onLine(x, gap, width float64) bool {
	if gap <= 0 {
		return false
	}
	return math.Mod(math.Abs(x), gap) < width
}

// Disc is the part of the z = 0 plane within Radius of the model origin.
type Disc struct {
	Radius float64
}

func NewDisc() *Disc {
	return &Disc{Radius: 2}
}

func (d *Disc) Intersect(r Ray) (float64, bool) {
	t, ok := intersectXY(r)
	if !ok {
		return 0, false
	}
	p := r.At(t)
	if p[0]*p[0]+p[1]*p[1] > d.Radius*d.Radius {
		return 0, false
	}
	return t, true
}

func (d *Disc) Normal(mgl64.Vec4) mgl64.Vec4 {
	return planeNormal
}
