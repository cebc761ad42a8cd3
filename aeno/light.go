package aeno

import "github.com/go-gl/mathgl/mgl64"

// Light is a point light in world space.
type Light struct {
	Position mgl64.Vec4
	Color    Color
	Enabled  bool
}

func NewLight(position mgl64.Vec3, color Color) *Light {
	return &Light{Position: Point(position), Color: color, Enabled: true}
}

// ShadowRay returns the ray from origin toward the light. The direction is
// left unnormalized so the light itself sits at t = 1.
func (l *Light) ShadowRay(origin mgl64.Vec4) Ray {
	dir := l.Position.Sub(origin)
	dir[3] = 0
	return Ray{Origin: origin, Direction: dir, Shadow: true}
}
