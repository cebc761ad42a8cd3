// Command melody-trace renders a scene file or a built-in preset to disk.
//
//	OUT=room.png melody-trace scenes/room.json
//	WIDTH=512 HEIGHT=512 THUMB=thumb.png melody-trace mirrors
//
// Without an argument the SCENE variable, then the spheres preset, is used.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/joho/godotenv"
	"github.com/netisu/melody-tracer/aeno"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// lookupInt reports whether key is set, and fails when it is set to
// something other than an integer.
func lookupInt(key string) (int, bool, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("%s=%q is not an integer", key, s)
	}
	return v, true, nil
}

func getInt(key string) (int, bool) {
	v, ok, err := lookupInt(key)
	if err != nil {
		log.Fatal(err)
	}
	return v, ok
}

func loadScene(name string) (aeno.SceneConfig, error) {
	if strings.HasSuffix(name, ".json") {
		return aeno.LoadScene(name)
	}
	return aeno.Preset(name)
}

func main() {
	_ = godotenv.Load()

	name := getEnv("SCENE", "spheres")
	if len(os.Args) > 1 {
		name = os.Args[1]
	}
	out := getEnv("OUT", "render.png")
	debug := os.Getenv("DEBUG") != ""

	cfg, err := loadScene(name)
	if err != nil {
		log.Fatalf("Failed to load scene %s: %v (presets: %s)", name, err, strings.Join(aeno.PresetNames(), ", "))
	}
	scene, settings, err := cfg.Build()
	if err != nil {
		log.Fatalf("Failed to build scene %s: %v", name, err)
	}
	if w, ok := getInt("WIDTH"); ok {
		settings.Width = w
	}
	if h, ok := getInt("HEIGHT"); ok {
		settings.Height = h
	}
	if d, ok := getInt("DEPTH"); ok {
		settings.MaxDepth = d
	}
	if aa, ok := getInt("AA"); ok {
		settings.Antialias = aa
	}

	if debug {
		log.Printf("%s: %d objects, %d lights, settings %+v", aeno.Version(), len(scene.Objects), len(scene.Lights), settings)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	// Rows finish on several goroutines.
	var mu sync.Mutex
	var last int
	img, err := scene.TraceImage(ctx, settings, func(p float64) {
		mu.Lock()
		defer mu.Unlock()
		if debug && int(p)/10 > last {
			last = int(p) / 10
			fmt.Printf("[PROGRESS] %.2f%%\n", p)
		}
	})
	if err != nil {
		log.Fatalf("Render failed: %v", err)
	}

	if err := img.Save(out); err != nil {
		log.Fatalf("Failed to save %s: %v", out, err)
	}
	fmt.Printf("Rendered %s to %s in %v\n", name, filepath.Clean(out), time.Since(start).Round(time.Millisecond))

	if thumb := os.Getenv("THUMB"); thumb != "" {
		size := 128
		if v, ok := getInt("THUMB_SIZE"); ok {
			if v <= 0 {
				log.Fatalf("THUMB_SIZE must be positive, got %d", v)
			}
			size = v
		}
		if err := imaging.Save(img.Thumbnail(uint(size), uint(size)), thumb); err != nil {
			log.Fatalf("Failed to save thumbnail %s: %v", thumb, err)
		}
	}
}
