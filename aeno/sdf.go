package aeno

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	marchEpsilon  = 1e-4
	marchMaxMiss  = 1e3
	marchMaxSteps = 512
	gradientStep  = 1e-4
)

// DistanceField is a signed distance function in model space: negative
// inside, positive outside, never larger than the true distance to the
// surface.
type DistanceField interface {
	Distance(p mgl64.Vec3) float64
}

// FieldFunc adapts a plain function to DistanceField.
type FieldFunc func(p mgl64.Vec3) float64

func (f FieldFunc) Distance(p mgl64.Vec3) float64 {
	return f(p)
}

// normalField is implemented by fields with an analytic normal.
type normalField interface {
	FieldNormal(p mgl64.Vec3) mgl64.Vec3
}

// Marched is a Shape found by sphere tracing a distance field.
type Marched struct {
	Field DistanceField
}

func NewMarched(f DistanceField) *Marched {
	return &Marched{Field: f}
}

func (m *Marched) Intersect(r Ray) (float64, bool) {
	return march(m.Field, r)
}

func (m *Marched) Normal(p mgl64.Vec4) mgl64.Vec4 {
	return Direction(fieldNormal(m.Field, p.Vec3()))
}

// march steps along r by the field distance until it is within
// marchEpsilon of the surface. It gives up once the ray is marchMaxMiss away
// from its origin, after marchMaxSteps steps, or when the origin is inside.
func march(f DistanceField, r Ray) (float64, bool) {
	o := r.Origin.Vec3()
	d := r.Direction.Vec3()
	dl := d.Len()
	if dl == 0 {
		return 0, false
	}
	t := 0.0
	for i := 0; i < marchMaxSteps; i++ {
		dist := f.Distance(o.Add(d.Mul(t)))
		if i == 0 && dist < 0 {
			return 0, false
		}
		if dist < marchEpsilon {
			return t, true
		}
		t += dist / dl
		if t*dl > marchMaxMiss {
			return 0, false
		}
	}
	return 0, false
}

func fieldNormal(f DistanceField, p mgl64.Vec3) mgl64.Vec3 {
	if nf, ok := f.(normalField); ok {
		return nf.FieldNormal(p)
	}
	return gradient(f, p)
}

// gradient estimates the field normal with central differences.
func gradient(f DistanceField, p mgl64.Vec3) mgl64.Vec3 {
	const h = gradientStep
	g := mgl64.Vec3{
		f.Distance(mgl64.Vec3{p[0] + h, p[1], p[2]}) - f.Distance(mgl64.Vec3{p[0] - h, p[1], p[2]}),
		f.Distance(mgl64.Vec3{p[0], p[1] + h, p[2]}) - f.Distance(mgl64.Vec3{p[0], p[1] - h, p[2]}),
		f.Distance(mgl64.Vec3{p[0], p[1], p[2] + h}) - f.Distance(mgl64.Vec3{p[0], p[1], p[2] - h}),
	}
	if g.Len() == 0 {
		return mgl64.Vec3{0, 0, 1}
	}
	return g.Normalize()
}

// Box is an axis-aligned box centered on the origin with half extents Half.
type Box struct {
	Half mgl64.Vec3
}

func (b Box) Distance(p mgl64.Vec3) float64 {
	q := mgl64.Vec3{
		math.Abs(p[0]) - b.Half[0],
		math.Abs(p[1]) - b.Half[1],
		math.Abs(p[2]) - b.Half[2],
	}
	outside := mgl64.Vec3{math.Max(q[0], 0), math.Max(q[1], 0), math.Max(q[2], 0)}
	inside := math.Min(math.Max(q[0], math.Max(q[1], q[2])), 0)
	return outside.Len() + inside
}

// FieldNormal picks the face whose plane p lies closest to.
func (b Box) FieldNormal(p mgl64.Vec3) mgl64.Vec3 {
	axis, best := 0, math.Inf(1)
	for i := 0; i < 3; i++ {
		if d := math.Abs(math.Abs(p[i]) - b.Half[i]); d < best {
			axis, best = i, d
		}
	}
	var n mgl64.Vec3
	n[axis] = math.Copysign(1, p[axis])
	return n
}

// NewCube returns the cube spanning [-1, 1] on every axis.
func NewCube() *Marched {
	return NewMarched(Box{Half: mgl64.Vec3{1, 1, 1}})
}

// Cylinder is a round-capped cylinder along one model axis: the points
// within Radius of the segment from -Size to +Size on that axis.
type Cylinder struct {
	Axis   int
	Size   float64
	Radius float64
}

// split returns the coordinate along the axis and the radial offset.
func (c Cylinder) split(p mgl64.Vec3) (float64, mgl64.Vec3) {
	along := p[c.Axis]
	radial := p
	radial[c.Axis] = 0
	return along, radial
}

func (c Cylinder) Distance(p mgl64.Vec3) float64 {
	along, radial := c.split(p)
	if math.Abs(along) <= c.Size {
		return radial.Len() - c.Radius
	}
	tip := radial
	tip[c.Axis] = math.Abs(along) - c.Size
	return tip.Len() - c.Radius
}

func (c Cylinder) FieldNormal(p mgl64.Vec3) mgl64.Vec3 {
	along, radial := c.split(p)
	if math.Abs(along) > c.Size {
		radial[c.Axis] = along - math.Copysign(c.Size, along)
	}
	if radial.Len() == 0 {
		var n mgl64.Vec3
		n[c.Axis] = math.Copysign(1, along)
		return n
	}
	return radial.Normalize()
}

// NewCylinder returns the z-axis cylinder of half length 3 and radius 1.
func NewCylinder() *Marched {
	return NewMarched(Cylinder{Axis: 2, Size: 3, Radius: 1})
}

// Union is the union of its fields.
type Union []DistanceField

func (u Union) Distance(p mgl64.Vec3) float64 {
	d, _ := u.nearest(p)
	return d
}

func (u Union) nearest(p mgl64.Vec3) (float64, DistanceField) {
	best, field := math.Inf(1), DistanceField(nil)
	for _, f := range u {
		if d := f.Distance(p); d < best {
			best, field = d, f
		}
	}
	return best, field
}

// FieldNormal uses the normal of the member closest to p.
func (u Union) FieldNormal(p mgl64.Vec3) mgl64.Vec3 {
	_, f := u.nearest(p)
	if f == nil {
		return mgl64.Vec3{0, 0, 1}
	}
	return fieldNormal(f, p)
}

// Intersection is the common volume of its fields.
type Intersection []DistanceField

func (in Intersection) Distance(p mgl64.Vec3) float64 {
	d := math.Inf(-1)
	for _, f := range in {
		d = math.Max(d, f.Distance(p))
	}
	return d
}

// Difference is Base with Cut removed.
type Difference struct {
	Base, Cut DistanceField
}

func (df Difference) Distance(p mgl64.Vec3) float64 {
	return math.Max(df.Base.Distance(p), -df.Cut.Distance(p))
}

// NewJack returns three unit-radius cylinders crossing at the origin, one per
// axis.
func NewJack() *Marched {
	return NewMarched(Union{
		Cylinder{Axis: 0, Size: 3, Radius: 1},
		Cylinder{Axis: 1, Size: 3, Radius: 1},
		Cylinder{Axis: 2, Size: 3, Radius: 1},
	})
}

// Superquadric is the unit superellipsoid
// (|x|^(2/E2) + |y|^(2/E2))^(E2/E1) + |z|^(2/E1) = 1.
// Its implicit function is not a true distance, so the radial estimate is
// halved to keep the march from stepping through the surface.
type Superquadric struct {
	E1, E2 float64
}

func (s Superquadric) Distance(p mgl64.Vec3) float64 {
	r := p.Len()
	if r == 0 {
		return -1
	}
	xy := math.Pow(math.Abs(p[0]), 2/s.E2) + math.Pow(math.Abs(p[1]), 2/s.E2)
	f := math.Pow(xy, s.E2/s.E1) + math.Pow(math.Abs(p[2]), 2/s.E1)
	// p is scale times the surface point along the same ray from the origin
	scale := math.Pow(f, s.E1/2)
	if scale == 0 {
		return -r
	}
	return 0.5 * r * (1 - 1/scale)
}

func NewSuperquadric(e1, e2 float64) *Marched {
	return NewMarched(Superquadric{E1: e1, E2: e2})
}
