package aeno

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestToIntMapping(t *testing.T) {
	b, err := NewImageBuffer(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	copy(b.FBuf, []float64{0, 1, 0.5, -1, 2, 0.999})
	b.ToInt()
	want := []uint8{0, 255, 128, 0, 255, 255}
	if !bytes.Equal(b.IBuf, want) {
		t.Fatalf("bytes %v, want %v", b.IBuf, want)
	}

	b.IBuf[0] = 255
	b.ToFloat()
	if b.FBuf[0] != 1 || b.FBuf[3] != 0 {
		t.Fatalf("floats %v", b.FBuf)
	}
}

func TestNewImageBufferRejectsEmpty(t *testing.T) {
	if _, err := NewImageBuffer(0, 4); !errors.Is(err, ErrInvalidResolution) {
		t.Fatalf("expected ErrInvalidResolution, got %v", err)
	}
}

func TestImageIsTopDown(t *testing.T) {
	b, _ := NewImageBuffer(1, 2)
	b.Set(0, 0, Color{1, 0, 0})
	b.Set(0, 1, Color{0, 0, 1})
	b.ToInt()
	im := b.Image()
	if got := im.NRGBAAt(0, 1); got.R != 255 || got.B != 0 || got.A != 255 {
		t.Fatalf("bottom pixel %v, want red", got)
	}
	if got := im.NRGBAAt(0, 0); got.B != 255 || got.R != 0 {
		t.Fatalf("top pixel %v, want blue", got)
	}
}

func TestEncodeAndSave(t *testing.T) {
	b, _ := NewImageBuffer(8, 4)
	for i := range b.FBuf {
		b.FBuf[i] = 0.25
	}
	b.ToInt()

	data, err := b.PNG()
	if err != nil {
		t.Fatal(err)
	}
	im, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if im.Bounds().Dx() != 8 || im.Bounds().Dy() != 4 {
		t.Fatalf("decoded size %v", im.Bounds())
	}

	thumb := b.Thumbnail(4, 4)
	if thumb.Bounds().Dx() != 4 || thumb.Bounds().Dy() != 2 {
		t.Fatalf("thumbnail size %v", thumb.Bounds())
	}

	dir := t.TempDir()
	if err := b.SavePNG(filepath.Join(dir, "out.png")); err != nil {
		t.Fatal(err)
	}
	if err := b.Save(filepath.Join(dir, "out.jpg")); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"out.png", "out.jpg"} {
		if st, err := os.Stat(filepath.Join(dir, name)); err != nil || st.Size() == 0 {
			t.Fatalf("%s not written: %v", name, err)
		}
	}
	if err := b.Save(filepath.Join(dir, "out.xyz")); err == nil {
		t.Fatal("unknown extension must fail")
	}
}

func TestHexColor(t *testing.T) {
	if c := HexColor("#ff0000"); c != (Color{1, 0, 0}) {
		t.Fatalf("red %v", c)
	}
	if c := HexColor("fff"); c != White {
		t.Fatalf("white %v", c)
	}
	if c := HexColor("not a color"); c != Black {
		t.Fatalf("garbage %v", c)
	}
	if s := (Color{1, 0.5, 0}).String(); s != "#ff8000" {
		t.Fatalf("string %s", s)
	}
}

func TestColorJSON(t *testing.T) {
	var c Color
	if err := json.Unmarshal([]byte(`"#00ff00"`), &c); err != nil || c != (Color{0, 1, 0}) {
		t.Fatalf("hex: %v %v", c, err)
	}
	if err := json.Unmarshal([]byte(`[0.1, 0.2, 0.3]`), &c); err != nil || c != (Color{0.1, 0.2, 0.3}) {
		t.Fatalf("array: %v %v", c, err)
	}
	if err := json.Unmarshal([]byte(`{"r": 1}`), &c); err == nil {
		t.Fatal("object must be rejected")
	}
	data, err := json.Marshal(Color{0.1, 0.2, 0.3})
	if err != nil || string(data) != "[0.1,0.2,0.3]" {
		t.Fatalf("marshal: %s %v", data, err)
	}
}
