package aeno

import (
	"log"
)

const (
	// rayBias offsets secondary ray origins off the surface they start on.
	rayBias = 1e-3

	DefaultReflectionAttenuation = 0.1
)

// Scene struct to store all data for a scene
// Objects are tested in order; the first of several equally near hits wins.
// A scene must not be modified while a trace is running.
type Scene struct {
	Name    string
	Objects []*Object
	Lights  []*Light
	Sky     Color
	// ReflectionAttenuation scales reflected light on top of the material's
	// specular reflectance.
	ReflectionAttenuation float64
}

// NewScene returns an empty scene with the default sky.
func NewScene() *Scene {
	return &Scene{Sky: Sky, ReflectionAttenuation: DefaultReflectionAttenuation}
}

// AddObject adds an object to the scene
func (s *Scene) AddObject(o *Object) {
	if o == nil || o.Shape == nil {
		log.Printf("aeno: skipping object without a shape")
		return
	}
	s.Objects = append(s.Objects, o)
}

// AddObjects is a convenience method to add multiple objects
func (s *Scene) AddObjects(objects []*Object) {
	for _, o := range objects {
		s.AddObject(o)
	}
}

func (s *Scene) AddLight(l *Light) {
	s.Lights = append(s.Lights, l)
}

// Trace finds the nearest object along r, updating h.
func (s *Scene) Trace(r Ray, h *Hit) {
	for _, o := range s.Objects {
		o.Intersect(r, h)
	}
}

// Shade returns the color seen along the ray that produced h, following
// mirror reflections depth more times.
func (s *Scene) Shade(h *Hit, depth int) Color {
	if h.Missed() {
		return s.Sky
	}
	m := h.Material
	if m == nil {
		m = &defaultMaterial
	}
	h.Emissive = m.Ke
	h.Ambient, h.Diffuse, h.Specular = Black, Black, Black

	origin := h.Point.Add(h.View.Mul(rayBias))
	var shadow Hit
	for _, l := range s.Lights {
		if !l.Enabled {
			continue
		}
		shadow.Clear()
		s.Trace(l.ShadowRay(origin), &shadow)
		// the light sits at t = 1 along the shadow ray
		inShadow := !shadow.Missed() && shadow.T0 < 1
		h.Object.Shade(h, l, inShadow)
	}
	color := h.Color()

	if depth > 0 {
		reflected := Ray{
			Origin:    h.Point.Add(h.Normal.Mul(rayBias)),
			Direction: Reflect(h.View, h.Normal),
		}
		var rh Hit
		rh.Clear()
		s.Trace(reflected, &rh)
		rc := s.Shade(&rh, depth-1)
		color = color.Add(rc.Mul(m.Ks).MulScalar(s.ReflectionAttenuation))
	}
	return color
}
