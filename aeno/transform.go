package aeno

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type TransformKind int

const (
	TranslateKind TransformKind = iota
	RotateKind
	ScaleKind
)

func (k TransformKind) String() string {
	switch k {
	case TranslateKind:
		return "translate"
	case RotateKind:
		return "rotate"
	case ScaleKind:
		return "scale"
	}
	return fmt.Sprintf("TransformKind(%d)", int(k))
}

// Transform is one step of an object's transform stack. Angle is in radians
// and only used by rotations, where Vector is the axis.
type Transform struct {
	Kind   TransformKind
	Vector mgl64.Vec3
	Angle  float64
}

func Translation(v mgl64.Vec3) Transform {
	return Transform{Kind: TranslateKind, Vector: v}
}

func Rotation(radians float64, axis mgl64.Vec3) Transform {
	return Transform{Kind: RotateKind, Vector: axis, Angle: radians}
}

func Scaling(v mgl64.Vec3) Transform {
	return Transform{Kind: ScaleKind, Vector: v}
}

// Inverse returns the matrix undoing t, validating it first.
func (t Transform) Inverse() (mgl64.Mat4, error) {
	switch t.Kind {
	case TranslateKind:
		return mgl64.Translate3D(-t.Vector[0], -t.Vector[1], -t.Vector[2]), nil
	case RotateKind:
		l := t.Vector.Len()
		if l < degenerateEps {
			return mgl64.Mat4{}, fmt.Errorf("rotate about %v: %w", t.Vector, ErrDegenerateAxis)
		}
		return mgl64.HomogRotate3D(-t.Angle, t.Vector.Mul(1/l)), nil
	case ScaleKind:
		for _, s := range t.Vector {
			if math.Abs(s) < degenerateEps {
				return mgl64.Mat4{}, fmt.Errorf("scale by %v: %w", t.Vector, ErrDegenerateScale)
			}
		}
		return mgl64.Scale3D(1/t.Vector[0], 1/t.Vector[1], 1/t.Vector[2]), nil
	}
	return mgl64.Mat4{}, fmt.Errorf("unknown transform %v", t.Kind)
}

// Apply left-multiplies the inverse of t into the object's world-to-model
// matrix. Transforms therefore compose so that the last one applied acts on
// model space first. On error the object is left unchanged.
func (o *Object) Apply(t Transform) error {
	inv, err := t.Inverse()
	if err != nil {
		return err
	}
	o.worldToModel = inv.Mul4(o.worldToModel)
	o.normalToWorld = o.worldToModel.Transpose()
	return nil
}

func (o *Object) Translate(v mgl64.Vec3) error {
	return o.Apply(Translation(v))
}

func (o *Object) Rotate(radians float64, axis mgl64.Vec3) error {
	return o.Apply(Rotation(radians, axis))
}

func (o *Object) Scale(v mgl64.Vec3) error {
	return o.Apply(Scaling(v))
}

// ResetTransform restores the identity transform.
func (o *Object) ResetTransform() {
	o.worldToModel = mgl64.Ident4()
	o.normalToWorld = mgl64.Ident4()
}

func (o *Object) WorldToModel() mgl64.Mat4 {
	return o.worldToModel
}

func (o *Object) NormalToWorld() mgl64.Mat4 {
	return o.normalToWorld
}
