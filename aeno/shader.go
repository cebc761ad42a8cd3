package aeno

import (
	"math"
)

// defaultMaterial shades objects built without one.
var defaultMaterial = newMaterial("default", Gray(0.1), Gray(0.5), Gray(0.3), 20)

// Shade adds the Phong contribution of light l at h to h's shading terms.
// Emissive is set, ambient always accumulates, and diffuse and specular
// accumulate only when the light is visible. Both fall off with the inverse
// of the distance to the light.
func (o *Object) Shade(h *Hit, l *Light, inShadow bool) {
	m := h.Material
	if m == nil {
		m = &defaultMaterial
	}
	h.Emissive = m.Ke
	h.Ambient = h.Ambient.Add(m.Ia.Mul(m.Ka))
	if inShadow {
		return
	}

	toLight := l.Position.Sub(h.Point)
	toLight[3] = 0
	dist := math.Sqrt(toLight.Dot(toLight))
	if dist == 0 {
		return
	}
	lv := toLight.Mul(1 / dist)
	attenuation := 1 / dist

	lambert := math.Max(0, h.Normal.Dot(lv))
	h.Diffuse = h.Diffuse.Add(m.Id.Mul(m.Kd).Mul(l.Color).MulScalar(lambert * attenuation))

	r := Reflect(lv, h.Normal)
	phong := math.Pow(math.Max(0, r.Dot(h.View)), m.Shininess)
	h.Specular = h.Specular.Add(m.Is.Mul(m.Ks).Mul(l.Color).MulScalar(phong * attenuation))
}
