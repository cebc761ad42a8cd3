// Package aeno is a small recursive ray tracer.
//
// A Scene holds an ordered list of Objects (analytic surfaces and ray-marched
// distance fields, each with its own stack of affine transforms) and a list of
// point Lights. Scene.TraceImage casts supersampled eye rays through a Camera,
// shades the nearest hit with the Phong model, casts shadow and reflection
// rays, and writes the result into an ImageBuffer. Tracer wraps a Scene with
// the mutable settings an interactive front end needs and runs traces in the
// background.
package aeno

import (
	"fmt"
)

const (
	ver = "a.2"
)

// Version returns the banner printed by the tools built on this package.
func Version() string {
	return fmt.Sprintf("Aeno %s (ray tracer)", ver)
}
