package aeno

import (
	"fmt"
	"sort"
	"strings"
)

// Material holds Phong coefficients. Materials are shared between objects
// and must not be modified once a scene is built.
type Material struct {
	Name string `json:"name,omitempty"`

	// Illumination the material responds to.
	Ia Color `json:"ia"`
	Id Color `json:"id"`
	Is Color `json:"is"`

	// Reflectances.
	Ka Color `json:"ka"`
	Kd Color `json:"kd"`
	Ks Color `json:"ks"`
	Ke Color `json:"ke"`

	Shininess float64 `json:"shininess"`
}

func newMaterial(name string, ka, kd, ks Color, shininess float64) Material {
	return Material{
		Name:      name,
		Ia:        White,
		Id:        White,
		Is:        White,
		Ka:        ka,
		Kd:        kd,
		Ks:        ks,
		Shininess: shininess,
	}
}

var materials = map[string]Material{}

func init() {
	for _, m := range []Material{
		newMaterial("red_plastic", Gray(0.1), Color{0.6, 0, 0}, Gray(0.6), 100),
		newMaterial("green_plastic", Gray(0.05), Color{0, 0.6, 0}, Gray(0.2), 60),
		newMaterial("blue_plastic", Gray(0.05), Color{0, 0.2, 0.6}, Color{0.1, 0.2, 0.3}, 5),
		newMaterial("black_plastic", Gray(0), Gray(0.01), Gray(0.5), 32),
		newMaterial("black_rubber", Gray(0.02), Gray(0.01), Gray(0.4), 10),
		newMaterial("brass", Color{0.329412, 0.223529, 0.027451}, Color{0.780392, 0.568627, 0.113725}, Color{0.992157, 0.941176, 0.807843}, 27.8974),
		newMaterial("bronze_dull", Color{0.2125, 0.1275, 0.054}, Color{0.714, 0.4284, 0.18144}, Color{0.393548, 0.271906, 0.166721}, 25.6),
		newMaterial("bronze_shiny", Color{0.25, 0.148, 0.06475}, Color{0.4, 0.2368, 0.1036}, Color{0.774597, 0.458561, 0.200621}, 76.8),
		newMaterial("chrome", Gray(0.25), Gray(0.4), Gray(0.774597), 76.8),
		newMaterial("copper_dull", Color{0.19125, 0.0735, 0.0225}, Color{0.7038, 0.27048, 0.0828}, Color{0.256777, 0.137622, 0.086014}, 12.8),
		newMaterial("copper_shiny", Color{0.2295, 0.08825, 0.0275}, Color{0.5508, 0.2118, 0.066}, Color{0.580594, 0.223257, 0.0695701}, 51.2),
		newMaterial("gold_dull", Color{0.24725, 0.1995, 0.0745}, Color{0.75164, 0.60648, 0.22648}, Color{0.628281, 0.555802, 0.366065}, 51.2),
		newMaterial("gold_shiny", Color{0.24725, 0.2245, 0.0645}, Color{0.34615, 0.3143, 0.0903}, Color{0.797357, 0.723991, 0.208006}, 83.2),
		newMaterial("pewter", Color{0.105882, 0.058824, 0.113725}, Color{0.427451, 0.470588, 0.541176}, Color{0.333333, 0.333333, 0.521569}, 9.84615),
		newMaterial("silver_dull", Gray(0.19225), Gray(0.50754), Gray(0.508273), 51.2),
		newMaterial("silver_shiny", Gray(0.23125), Gray(0.2775), Gray(0.773911), 89.6),
		newMaterial("emerald", Color{0.0215, 0.1745, 0.0215}, Color{0.07568, 0.61424, 0.07568}, Color{0.633, 0.727811, 0.633}, 76.8),
		newMaterial("jade", Color{0.135, 0.2225, 0.1575}, Color{0.54, 0.89, 0.63}, Gray(0.316228), 12.8),
		newMaterial("obsidian", Color{0.05375, 0.05, 0.06625}, Color{0.18275, 0.17, 0.22525}, Color{0.332741, 0.328634, 0.346435}, 38.4),
		newMaterial("pearl", Color{0.25, 0.20725, 0.20725}, Color{1.0, 0.829, 0.829}, Gray(0.296648), 11.264),
		newMaterial("ruby", Color{0.1745, 0.01175, 0.01175}, Color{0.61424, 0.04136, 0.04136}, Color{0.727811, 0.626959, 0.626959}, 76.8),
		newMaterial("turquoise", Color{0.1, 0.18725, 0.1745}, Color{0.396, 0.74151, 0.69102}, Color{0.297254, 0.30829, 0.306678}, 12.8),
	} {
		materials[m.Name] = m
	}
}

// LookupMaterial returns a named material from the built-in library. Names
// are case-insensitive.
func LookupMaterial(name string) (*Material, error) {
	m, ok := materials[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownMaterial)
	}
	return &m, nil
}

// MaterialNames lists the built-in library in alphabetical order.
func MaterialNames() []string {
	names := make([]string, 0, len(materials))
	for name := range materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
