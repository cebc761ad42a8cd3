package aeno

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

func vec(x, y, z float64) *mgl64.Vec3 {
	return &mgl64.Vec3{x, y, z}
}

func translate(x, y, z float64) TransformCfg {
	return TransformCfg{Translate: vec(x, y, z)}
}

func rotate(deg float64, x, y, z float64) TransformCfg {
	return TransformCfg{Rotate: &RotateCfg{Axis: mgl64.Vec3{x, y, z}, Degrees: deg}}
}

func scale(x, y, z float64) TransformCfg {
	return TransformCfg{Scale: vec(x, y, z)}
}

var presets = map[string]func() SceneConfig{
	"spheres": func() SceneConfig {
		return SceneConfig{
			Name: "spheres",
			Objects: []ObjectCfg{
				{Name: "ground", Type: "grid", Material: "silver_dull"},
				{Name: "mirror ball", Type: "sphere", Material: "chrome", Transforms: []TransformCfg{translate(-1.5, 0, 1)}},
				{Name: "red ball", Type: "sphere", Material: "red_plastic", Transforms: []TransformCfg{translate(1.5, 1, 1)}},
				{Name: "small ball", Type: "sphere", Material: "emerald", Transforms: []TransformCfg{translate(0.2, -2, 0.5), scale(0.5, 0.5, 0.5)}},
				{Name: "disc", Type: "disc", Material: "brass", Transforms: []TransformCfg{translate(0, 4, 2), rotate(90, 1, 0, 0)}},
			},
			Lights: []LightCfg{
				{Position: mgl64.Vec3{-3, -4, 6}},
				{Position: mgl64.Vec3{4, -2, 5}, Color: &Color{0.6, 0.6, 0.6}},
			},
		}
	},
	"sdf": func() SceneConfig {
		return SceneConfig{
			Name: "sdf",
			Objects: []ObjectCfg{
				{Name: "ground", Type: "grid", Material: "pewter"},
				{Name: "cube", Type: "cube", Material: "jade", Transforms: []TransformCfg{translate(-2.5, 1, 0.8), rotate(30, 0, 0, 1), scale(0.8, 0.8, 0.8)}},
				{Name: "cylinder", Type: "cylinder", Material: "copper_shiny", Transforms: []TransformCfg{translate(0, 3, 0.5), rotate(90, 0, 1, 0), scale(0.5, 0.5, 0.5)}},
				{Name: "jack", Type: "jack", Material: "gold_shiny", Transforms: []TransformCfg{translate(2.5, 1, 1.2), rotate(45, 0, 0, 1), scale(0.3, 0.3, 0.3)}},
				{Name: "rounded box", Type: "superquadric", Material: "pearl", E1: 0.3, E2: 0.3, Transforms: []TransformCfg{translate(0, -1, 0.7), scale(0.7, 0.7, 0.7)}},
			},
			Lights: []LightCfg{
				{Position: mgl64.Vec3{-2, -6, 7}},
			},
		}
	},
	"mirrors": func() SceneConfig {
		depth := 4
		return SceneConfig{
			Name:   "mirrors",
			Render: RenderCfg{MaxDepth: &depth},
			Objects: []ObjectCfg{
				{Name: "ground", Type: "grid", Material: "obsidian"},
				{Name: "left", Type: "sphere", Material: "silver_shiny", Transforms: []TransformCfg{translate(-1.1, 1, 1)}},
				{Name: "right", Type: "sphere", Material: "silver_shiny", Transforms: []TransformCfg{translate(1.1, 1, 1)}},
				{Name: "gem", Type: "sphere", Material: "ruby", Transforms: []TransformCfg{translate(0, -1, 0.4), scale(0.4, 0.4, 0.4)}},
			},
			Lights: []LightCfg{
				{Position: mgl64.Vec3{0, -5, 5}},
				{Position: mgl64.Vec3{0, 5, 5}, Color: &Color{0.3, 0.3, 0.5}},
			},
		}
	},
}

// Preset returns a built-in scene description.
func Preset(name string) (SceneConfig, error) {
	fn, ok := presets[name]
	if !ok {
		return SceneConfig{}, fmt.Errorf("%q: %w", name, ErrUnknownPreset)
	}
	return fn(), nil
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
