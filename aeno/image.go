package aeno

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
)

// PixelSize is the number of channels stored per pixel.
const PixelSize = 3

// ImageBuffer stores a traced image twice: as floats in [0,1] and as bytes.
// Both are row-major with row 0 at the bottom of the image.
type ImageBuffer struct {
	Width  int
	Height int
	FBuf   []float64
	IBuf   []uint8
}

func NewImageBuffer(width, height int) (*ImageBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image %dx%d: %w", width, height, ErrInvalidResolution)
	}
	n := width * height * PixelSize
	return &ImageBuffer{
		Width:  width,
		Height: height,
		FBuf:   make([]float64, n),
		IBuf:   make([]uint8, n),
	}, nil
}

func (b *ImageBuffer) index(x, y int) int {
	return (y*b.Width + x) * PixelSize
}

// Set stores c in the float buffer.
func (b *ImageBuffer) Set(x, y int, c Color) {
	i := b.index(x, y)
	b.FBuf[i] = c.R
	b.FBuf[i+1] = c.G
	b.FBuf[i+2] = c.B
}

func (b *ImageBuffer) At(x, y int) Color {
	i := b.index(x, y)
	return Color{b.FBuf[i], b.FBuf[i+1], b.FBuf[i+2]}
}

// ToInt refreshes the byte buffer from the float buffer.
func (b *ImageBuffer) ToInt() {
	for i, f := range b.FBuf {
		b.IBuf[i] = toByte(f)
	}
}

// ToFloat refreshes the float buffer from the byte buffer.
func (b *ImageBuffer) ToFloat() {
	for i, v := range b.IBuf {
		b.FBuf[i] = float64(v) / 255
	}
}

// Image returns the byte buffer as an image with the usual top-down row
// order.
func (b *ImageBuffer) Image() *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			i := b.index(x, y)
			j := im.PixOffset(x, y)
			im.Pix[j] = b.IBuf[i]
			im.Pix[j+1] = b.IBuf[i+1]
			im.Pix[j+2] = b.IBuf[i+2]
			im.Pix[j+3] = 0xff
		}
	}
	return imaging.FlipV(im)
}

// Encode writes the image in the given format.
func (b *ImageBuffer) Encode(w io.Writer, format imaging.Format) error {
	return imaging.Encode(w, b.Image(), format)
}

func (b *ImageBuffer) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.Encode(&buf, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Thumbnail scales the image down to fit within maxWidth x maxHeight,
// keeping its aspect ratio.
func (b *ImageBuffer) Thumbnail(maxWidth, maxHeight uint) image.Image {
	return resize.Thumbnail(maxWidth, maxHeight, b.Image(), resize.Bilinear)
}

func (b *ImageBuffer) SavePNG(path string) error {
	return fauxgl.SavePNG(path, b.Image())
}

// Save writes the image to path in the format implied by its extension.
func (b *ImageBuffer) Save(path string) error {
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return imaging.Save(b.Image(), path)
}
