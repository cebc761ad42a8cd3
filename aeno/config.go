package aeno

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// SceneConfig is the JSON description of a scene and how to trace it.
type SceneConfig struct {
	Name                  string                 `json:"name"`
	Sky                   *Color                 `json:"sky,omitempty"`
	ReflectionAttenuation *float64               `json:"reflectionAttenuation,omitempty"`
	Render                RenderCfg              `json:"render"`
	Camera                CameraCfg              `json:"camera"`
	Materials             map[string]MaterialCfg `json:"materials,omitempty"`
	Objects               []ObjectCfg            `json:"objects"`
	Lights                []LightCfg             `json:"lights"`
}

// RenderCfg overrides fields of DefaultSettings. Zero values keep the
// default.
type RenderCfg struct {
	Width     int  `json:"width,omitempty"`
	Height    int  `json:"height,omitempty"`
	MaxDepth  *int `json:"maxDepth,omitempty"`
	Antialias int  `json:"antialias,omitempty"`
	Jitter    bool `json:"jitter,omitempty"`
}

// CameraCfg places the camera either with an explicit aim point and up
// vector or with yaw and pitch angles in degrees.
type CameraCfg struct {
	Eye    *mgl64.Vec3 `json:"eye,omitempty"`
	Aim    *mgl64.Vec3 `json:"aim,omitempty"`
	Up     *mgl64.Vec3 `json:"up,omitempty"`
	Yaw    *float64    `json:"yaw,omitempty"`
	Pitch  *float64    `json:"pitch,omitempty"`
	FovY   float64     `json:"fovy,omitempty"`
	Aspect float64     `json:"aspect,omitempty"`
	Near   float64     `json:"near,omitempty"`
}

// MaterialCfg starts from the library material Base (if any) and overrides
// the fields that are set.
type MaterialCfg struct {
	Base      string   `json:"base,omitempty"`
	Ia        *Color   `json:"ia,omitempty"`
	Id        *Color   `json:"id,omitempty"`
	Is        *Color   `json:"is,omitempty"`
	Ka        *Color   `json:"ka,omitempty"`
	Kd        *Color   `json:"kd,omitempty"`
	Ks        *Color   `json:"ks,omitempty"`
	Ke        *Color   `json:"ke,omitempty"`
	Shininess *float64 `json:"shininess,omitempty"`
}

type RotateCfg struct {
	Axis    mgl64.Vec3 `json:"axis"`
	Degrees float64    `json:"deg"`
}

// TransformCfg must set exactly one of its fields.
type TransformCfg struct {
	Translate *mgl64.Vec3 `json:"translate,omitempty"`
	Rotate    *RotateCfg  `json:"rotate,omitempty"`
	Scale     *mgl64.Vec3 `json:"scale,omitempty"`
}

type ObjectCfg struct {
	Name       string         `json:"name,omitempty"`
	Type       string         `json:"type"`
	Material   string         `json:"material,omitempty"`
	Transforms []TransformCfg `json:"transforms,omitempty"`

	// disc
	Radius float64 `json:"radius,omitempty"`
	// grid
	XGap         float64 `json:"xgap,omitempty"`
	YGap         float64 `json:"ygap,omitempty"`
	LineWidth    float64 `json:"lineWidth,omitempty"`
	LineMaterial string  `json:"lineMaterial,omitempty"`
	// cylinder, jack
	Size       float64 `json:"size,omitempty"`
	TubeRadius float64 `json:"tubeRadius,omitempty"`
	// superquadric
	E1 float64 `json:"e1,omitempty"`
	E2 float64 `json:"e2,omitempty"`
}

type LightCfg struct {
	Position mgl64.Vec3 `json:"position"`
	Color    *Color     `json:"color,omitempty"`
	Enabled  *bool      `json:"enabled,omitempty"`
}

// LoadScene reads a scene description from a JSON file.
func LoadScene(path string) (SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SceneConfig{}, err
	}
	cfg, err := ParseScene(data)
	if err != nil {
		return SceneConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseScene decodes a scene description, rejecting unknown fields.
func ParseScene(data []byte) (SceneConfig, error) {
	var cfg SceneConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return SceneConfig{}, fmt.Errorf("decode scene: %w", err)
	}
	return cfg, nil
}

// Build validates the description and constructs the scene and the settings
// it asks to be traced with.
func (c SceneConfig) Build() (*Scene, Settings, error) {
	settings, err := c.settings()
	if err != nil {
		return nil, Settings{}, err
	}

	scene := NewScene()
	scene.Name = c.Name
	if c.Sky != nil {
		scene.Sky = *c.Sky
	}
	if c.ReflectionAttenuation != nil {
		scene.ReflectionAttenuation = *c.ReflectionAttenuation
	}

	mats := make(map[string]*Material, len(c.Materials))
	for name, mc := range c.Materials {
		m, err := mc.Build(name)
		if err != nil {
			return nil, Settings{}, err
		}
		mats[strings.ToLower(name)] = m
	}
	lookup := func(name string) (*Material, error) {
		if name == "" {
			return &defaultMaterial, nil
		}
		if m, ok := mats[strings.ToLower(name)]; ok {
			return m, nil
		}
		return LookupMaterial(name)
	}

	for i, oc := range c.Objects {
		o, err := oc.Build(lookup)
		if err != nil {
			return nil, Settings{}, fmt.Errorf("object %d (%s): %w", i, oc.Type, err)
		}
		scene.AddObject(o)
	}
	for _, lc := range c.Lights {
		scene.AddLight(lc.Build())
	}
	return scene, settings, nil
}

func (c SceneConfig) settings() (Settings, error) {
	s := DefaultSettings()
	if c.Render.Width != 0 {
		s.Width = c.Render.Width
	}
	if c.Render.Height != 0 {
		s.Height = c.Render.Height
	}
	if c.Render.MaxDepth != nil {
		s.MaxDepth = *c.Render.MaxDepth
	}
	if c.Render.Antialias != 0 {
		s.Antialias = c.Render.Antialias
	}
	s.Jitter = c.Render.Jitter

	cam := c.Camera
	if cam.Eye != nil {
		s.Eye = *cam.Eye
	}
	if cam.Yaw != nil || cam.Pitch != nil {
		var yaw, pitch float64 = 90, 0
		if cam.Yaw != nil {
			yaw = *cam.Yaw
		}
		if cam.Pitch != nil {
			pitch = *cam.Pitch
		}
		s.Aim, s.Up = OrbitPose(s.Eye, mgl64.DegToRad(yaw), mgl64.DegToRad(pitch))
	} else if cam.Eye != nil && cam.Aim == nil {
		s.Aim, s.Up = OrbitPose(s.Eye, mgl64.DegToRad(90), 0)
	}
	if cam.Aim != nil {
		s.Aim = *cam.Aim
	}
	if cam.Up != nil {
		s.Up = *cam.Up
	}
	if cam.FovY != 0 {
		s.FovY = cam.FovY
	}
	if cam.Aspect != 0 {
		s.Aspect = cam.Aspect
	}
	if cam.Near != 0 {
		s.Near = cam.Near
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (mc MaterialCfg) Build(name string) (*Material, error) {
	m := newMaterial(name, Black, Black, Black, 1)
	if mc.Base != "" {
		base, err := LookupMaterial(mc.Base)
		if err != nil {
			return nil, fmt.Errorf("material %s: %w", name, err)
		}
		m = *base
		m.Name = name
	}
	for _, f := range []struct {
		src *Color
		dst *Color
	}{
		{mc.Ia, &m.Ia}, {mc.Id, &m.Id}, {mc.Is, &m.Is},
		{mc.Ka, &m.Ka}, {mc.Kd, &m.Kd}, {mc.Ks, &m.Ks}, {mc.Ke, &m.Ke},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	if mc.Shininess != nil {
		m.Shininess = *mc.Shininess
	}
	return &m, nil
}

func (tc TransformCfg) Build() (Transform, error) {
	n := 0
	var t Transform
	if tc.Translate != nil {
		n++
		t = Translation(*tc.Translate)
	}
	if tc.Rotate != nil {
		n++
		t = Rotation(mgl64.DegToRad(tc.Rotate.Degrees), tc.Rotate.Axis)
	}
	if tc.Scale != nil {
		n++
		t = Scaling(*tc.Scale)
	}
	if n != 1 {
		return Transform{}, fmt.Errorf("transform must set exactly one of translate, rotate, scale (got %d)", n)
	}
	return t, nil
}

func (oc ObjectCfg) shape(lookup func(string) (*Material, error)) (Shape, error) {
	switch strings.ToLower(oc.Type) {
	case "plane":
		return &Plane{}, nil
	case "grid":
		g := NewGrid()
		if oc.XGap != 0 {
			g.XGap = oc.XGap
		}
		if oc.YGap != 0 {
			g.YGap = oc.YGap
		}
		if oc.LineWidth != 0 {
			g.LineWidth = oc.LineWidth
		}
		if oc.LineMaterial != "" {
			m, err := lookup(oc.LineMaterial)
			if err != nil {
				return nil, err
			}
			g.LineMaterial = m
		}
		return g, nil
	case "disc", "disk":
		d := NewDisc()
		if oc.Radius != 0 {
			d.Radius = oc.Radius
		}
		return d, nil
	case "sphere":
		return NewSphere(), nil
	case "cube":
		return NewCube(), nil
	case "cylinder":
		c := Cylinder{Axis: 2, Size: 3, Radius: 1}
		if oc.Size != 0 {
			c.Size = oc.Size
		}
		if oc.TubeRadius != 0 {
			c.Radius = oc.TubeRadius
		}
		return NewMarched(c), nil
	case "jack":
		var u Union
		for axis := 0; axis < 3; axis++ {
			c := Cylinder{Axis: axis, Size: 3, Radius: 1}
			if oc.Size != 0 {
				c.Size = oc.Size
			}
			if oc.TubeRadius != 0 {
				c.Radius = oc.TubeRadius
			}
			u = append(u, c)
		}
		return NewMarched(u), nil
	case "superquadric":
		e1, e2 := oc.E1, oc.E2
		if e1 == 0 {
			e1 = 1
		}
		if e2 == 0 {
			e2 = 1
		}
		if e1 < 0 || e2 < 0 {
			return nil, fmt.Errorf("superquadric exponents must be positive: %g, %g", e1, e2)
		}
		return NewSuperquadric(e1, e2), nil
	}
	return nil, fmt.Errorf("%q: %w", oc.Type, ErrUnknownShape)
}

// Build constructs the object and applies its transforms in order.
func (oc ObjectCfg) Build(lookup func(string) (*Material, error)) (*Object, error) {
	shape, err := oc.shape(lookup)
	if err != nil {
		return nil, err
	}
	m, err := lookup(oc.Material)
	if err != nil {
		return nil, err
	}
	o := NewObject(shape, m)
	o.Name = oc.Name
	for _, tc := range oc.Transforms {
		t, err := tc.Build()
		if err != nil {
			return nil, err
		}
		if err := o.Apply(t); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (lc LightCfg) Build() *Light {
	l := NewLight(lc.Position, White)
	if lc.Color != nil {
		l.Color = *lc.Color
	}
	if lc.Enabled != nil {
		l.Enabled = *lc.Enabled
	}
	return l
}
