package ptimg

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/ericpauley/go-quantize/quantize"
	xdraw "golang.org/x/image/draw"
)

// quantized reduces m to at most colors colors which shrinks the
// resulting PNG considerably.
func quantized(m image.Image, colors int) image.Image {
	b := m.Bounds()

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return pm
}

// scaled resamples m by the given factor.
func scaled(m image.Image, factor float64) image.Image {
	b := m.Bounds()

	r := image.Rect(0, 0, int(float64(b.Dx())*factor), int(float64(b.Dy())*factor))
	dst := image.NewRGBA(r)
	xdraw.CatmullRom.Scale(dst, r, m, b, xdraw.Src, nil)

	return dst
}

// SavePNG writes img to path as a PNG file, applying any configured
// scaling and quantization first.
func (m *Ptimg) SavePNG(path string, img image.Image) error {
	if m.Scale > 0 && m.Scale != 1 {
		img = scaled(img, m.Scale)
	}
	if m.Colors > 0 {
		img = quantized(img, m.Colors)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}
