package aeno

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Shape is the model-space part of an Object. Intersect returns the
// parametric distance of the nearest intersection in front of the ray
// origin, measured along the ray's (not necessarily unit) direction. Normal
// returns the outward model-space normal at a surface point.
type Shape interface {
	Intersect(r Ray) (float64, bool)
	Normal(p mgl64.Vec4) mgl64.Vec4
}

// patterned shapes vary their material over the surface.
type patterned interface {
	MaterialAt(p mgl64.Vec4, base *Material) *Material
}

// Object struct for objects
// objects are placed in a scene to be ray traced
type Object struct {
	Name     string
	Shape    Shape
	Material *Material

	worldToModel  mgl64.Mat4
	normalToWorld mgl64.Mat4
}

// NewObject returns an object with the identity transform.
func NewObject(shape Shape, material *Material) *Object {
	o := &Object{Shape: shape, Material: material}
	o.ResetTransform()
	return o
}

// Intersect records the object in h if r hits it closer than anything h
// already holds. Ties keep the earlier object. For shadow rays only T0 and
// Object are written.
func (o *Object) Intersect(r Ray, h *Hit) {
	debugAssertHit(h)

	mr := r.Transform(o.worldToModel)
	t, ok := o.Shape.Intersect(mr)
	if !ok || t < 0 || !(t < h.T0) {
		return
	}
	h.T0 = t
	h.Object = o
	if r.Shadow {
		return
	}

	h.ModelPoint = mr.At(t)
	h.Point = r.At(t)
	h.View = normalize(r.Direction.Mul(-1))

	n := o.normalToWorld.Mul4x1(o.Shape.Normal(h.ModelPoint))
	n[3] = 0
	n = normalize(n)
	// surfaces are two-sided
	if n.Dot(h.View) < 0 {
		n = n.Mul(-1)
	}
	h.Normal = n
	h.Material = o.materialAt(h.ModelPoint)
	h.Emissive, h.Ambient, h.Diffuse, h.Specular = Black, Black, Black, Black
}

func (o *Object) materialAt(p mgl64.Vec4) *Material {
	if pat, ok := o.Shape.(patterned); ok {
		return pat.MaterialAt(p, o.Material)
	}
	return o.Material
}
