package aeno

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// degenerateEps is the tolerance used to reject zero-length axes, scale
// factors and camera bases.
const degenerateEps = 1e-6

// Frustum is the view window on the near plane, in camera coordinates.
type Frustum struct {
	Left, Right, Top, Bottom, Near float64
}

// Camera casts eye rays from Eye through a pixel grid laid over the frustum.
// Row y=0 is the bottom edge of the frustum.
type Camera struct {
	Eye     mgl64.Vec4
	U, V, N mgl64.Vec4
	Frustum Frustum

	width, height int
	uFrac, vFrac  float64
}

// NewCamera returns a camera at the origin looking down -z with a 45 degree
// square frustum and a 256x256 pixel grid.
func NewCamera() *Camera {
	c := &Camera{
		Eye: mgl64.Vec4{0, 0, 0, 1},
		U:   mgl64.Vec4{1, 0, 0, 0},
		V:   mgl64.Vec4{0, 1, 0, 0},
		N:   mgl64.Vec4{0, 0, 1, 0},
	}
	_ = c.SetPerspective(45, 1, 1)
	_ = c.SetResolution(256, 256)
	return c
}

// SetPerspective sets a symmetric frustum from a vertical field of view in
// degrees, a width/height aspect ratio and the near-plane distance.
func (c *Camera) SetPerspective(fovy, aspect, near float64) error {
	if !(fovy > 0 && fovy < 180) || !(aspect > 0) || !(near > 0) {
		return fmt.Errorf("perspective fovy=%g aspect=%g near=%g: %w", fovy, aspect, near, ErrInvalidFrustum)
	}
	top := near * math.Tan(mgl64.DegToRad(fovy)/2)
	right := top * aspect
	return c.SetFrustum(-right, right, top, -top, near)
}

// SetFrustum sets the view window directly.
func (c *Camera) SetFrustum(left, right, top, bottom, near float64) error {
	if !(right > left) || !(top > bottom) || !(near > 0) {
		return fmt.Errorf("frustum l=%g r=%g t=%g b=%g n=%g: %w", left, right, top, bottom, near, ErrInvalidFrustum)
	}
	c.Frustum = Frustum{Left: left, Right: right, Top: top, Bottom: bottom, Near: near}
	c.updateFractions()
	return nil
}

// LookAt builds the orthonormal camera basis: N points from aim back to the
// eye, U = up x N and V = N x U.
func (c *Camera) LookAt(eye, aim, up mgl64.Vec3) error {
	back := eye.Sub(aim)
	if back.Len() < degenerateEps {
		return fmt.Errorf("eye %v equals aim %v: %w", eye, aim, ErrDegenerateBasis)
	}
	n := back.Normalize()
	side := up.Cross(n)
	if side.Len() < degenerateEps {
		return fmt.Errorf("up %v parallel to view direction: %w", up, ErrDegenerateBasis)
	}
	u := side.Normalize()
	v := n.Cross(u)

	c.Eye = Point(eye)
	c.U = Direction(u)
	c.V = Direction(v)
	c.N = Direction(n)
	return nil
}

// SetResolution sets the pixel grid the frustum is divided into.
func (c *Camera) SetResolution(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resolution %dx%d: %w", width, height, ErrInvalidResolution)
	}
	c.width, c.height = width, height
	c.updateFractions()
	return nil
}

func (c *Camera) Resolution() (width, height int) {
	return c.width, c.height
}

func (c *Camera) updateFractions() {
	if c.width == 0 || c.height == 0 {
		return
	}
	c.uFrac = (c.Frustum.Right - c.Frustum.Left) / float64(c.width)
	c.vFrac = (c.Frustum.Top - c.Frustum.Bottom) / float64(c.height)
}

// EyeRay returns the ray through subpixel sub of pixel (x, y), where the
// pixel is split into a grid x grid lattice of samples. Samples sit at the
// lattice cell centers, or at a uniformly random spot inside the cell when
// rng is non-nil.
func (c *Camera) EyeRay(x, y, sub, grid int, rng *rand.Rand) Ray {
	if grid < 1 {
		grid = 1
	}
	sx, sy := sub%grid, sub/grid
	ox, oy := 0.5, 0.5
	if rng != nil {
		ox, oy = rng.Float64(), rng.Float64()
	}
	fx := (float64(sx) + ox) / float64(grid)
	fy := (float64(sy) + oy) / float64(grid)

	uPos := c.Frustum.Left + (float64(x)+fx)*c.uFrac
	vPos := c.Frustum.Bottom + (float64(y)+fy)*c.vFrac

	dir := c.U.Mul(uPos).Add(c.V.Mul(vPos)).Sub(c.N.Mul(c.Frustum.Near))
	dir[3] = 0
	return Ray{Origin: c.Eye, Direction: dir}
}

// OrbitPose turns a yaw/pitch pair (radians, z up) into the aim point one
// unit in front of eye and an up vector perpendicular to the view direction.
func OrbitPose(eye mgl64.Vec3, yaw, pitch float64) (aim, up mgl64.Vec3) {
	aim = eye.Add(mgl64.Vec3{
		math.Cos(yaw) * math.Cos(pitch),
		math.Sin(yaw) * math.Cos(pitch),
		math.Sin(pitch),
	})
	up = mgl64.Vec3{
		math.Cos(yaw) * math.Cos(pitch+math.Pi/2),
		math.Sin(yaw) * math.Cos(pitch+math.Pi/2),
		math.Sin(pitch + math.Pi/2),
	}
	return aim, up
}
