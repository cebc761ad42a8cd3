//go:build debug
// +build debug

package aeno

import "math"

// debugAssertHit panics when a Hit is handed to an intersection routine in a
// state clear() would never leave it in.
func debugAssertHit(h *Hit) {
	if (h.Object == nil) != math.IsInf(h.T0, 1) {
		panic("aeno: hit reused without Clear")
	}
}
