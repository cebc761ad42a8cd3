package aeno

import "errors"

var (
	ErrDegenerateAxis    = errors.New("aeno: rotation axis has zero length")
	ErrDegenerateScale   = errors.New("aeno: scale factor is zero")
	ErrDegenerateBasis   = errors.New("aeno: camera basis is degenerate")
	ErrInvalidFrustum    = errors.New("aeno: invalid frustum")
	ErrInvalidResolution = errors.New("aeno: resolution must be positive")
	ErrInvalidDepth      = errors.New("aeno: recursion depth must not be negative")
	ErrInvalidAntialias  = errors.New("aeno: antialias grid must be positive")
	ErrUnknownShape      = errors.New("aeno: unknown shape")
	ErrUnknownMaterial   = errors.New("aeno: unknown material")
	ErrUnknownPreset     = errors.New("aeno: unknown preset")
	ErrNoScene           = errors.New("aeno: no scene loaded")
)
