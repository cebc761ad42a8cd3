package aeno

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"

	"github.com/fogleman/fauxgl"
)

// Color is a linear RGB triple. Channels are not clamped until the image
// buffer converts them to bytes.
type Color struct {
	R, G, B float64
}

var (
	Black = Color{}
	White = Color{1, 1, 1}
	// Sky is shown wherever an eye or reflection ray leaves the scene.
	Sky = Color{0.3, 1, 1}
)

var hexColorPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// HexColor parses "#rgb" or "#rrggbb". Malformed input yields black.
func HexColor(x string) Color {
	if !hexColorPattern.MatchString(x) {
		return Black
	}
	c := fauxgl.HexColor(x)
	return Color{c.R, c.G, c.B}
}

func Gray(x float64) Color {
	return Color{x, x, x}
}

func (a Color) Add(b Color) Color {
	return Color{a.R + b.R, a.G + b.G, a.B + b.B}
}

// Mul is the componentwise (Hadamard) product.
func (a Color) Mul(b Color) Color {
	return Color{a.R * b.R, a.G * b.G, a.B * b.B}
}

func (a Color) MulScalar(b float64) Color {
	return Color{a.R * b, a.G * b, a.B * b}
}

func (a Color) DivScalar(b float64) Color {
	return Color{a.R / b, a.G / b, a.B / b}
}

func (a Color) ApproxEqual(b Color, eps float64) bool {
	return math.Abs(a.R-b.R) <= eps && math.Abs(a.G-b.G) <= eps && math.Abs(a.B-b.B) <= eps
}

func (a Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", toByte(a.R), toByte(a.G), toByte(a.B))
}

// UnmarshalJSON accepts either a hex string or an [r, g, b] array.
func (a *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if !hexColorPattern.MatchString(s) {
			return fmt.Errorf("invalid hex color %q", s)
		}
		*a = HexColor(s)
		return nil
	}
	var rgb [3]float64
	if err := json.Unmarshal(data, &rgb); err != nil {
		return fmt.Errorf("color must be a hex string or [r, g, b]: %w", err)
	}
	*a = Color{rgb[0], rgb[1], rgb[2]}
	return nil
}

func (a Color) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{a.R, a.G, a.B})
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// toByte maps [0,1] onto 0..255 with equal-width buckets.
func toByte(x float64) uint8 {
	v := math.Floor(clamp01(x) * 256)
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
