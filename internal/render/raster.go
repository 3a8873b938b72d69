package render

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/nfnt/resize"
)

// RGB is a single 8-bit-per-channel color sample.
type RGB struct {
	R, G, B uint8
}

// PixelGrid is a row-major rectangular grid of RGB samples produced by
// the rasterizer and consumed once by a glyph encoder.
type PixelGrid struct {
	W, H int
	Pix  []RGB
}

// At returns the sample at (x, y). Callers stay in bounds.
func (g *PixelGrid) At(x, y int) RGB {
	return g.Pix[y*g.W+x]
}

// GridSpec is a pixel-space resampling target. PixelWidth 0 derives the
// width from the source aspect ratio scaled by Correction, which
// compensates for terminal cells being taller than wide.
type GridSpec struct {
	PixelWidth  int
	PixelHeight int
	Correction  float64
	Fast        bool
}

// Rasterizer loads a source image and resamples it into a pixel grid.
type Rasterizer interface {
	Rasterize(path string, spec GridSpec) (*PixelGrid, error)
}

// FileRasterizer decodes PNG, JPEG, GIF, BMP, and WebP files.
type FileRasterizer struct{}

// Rasterize implements Rasterizer. Decode failures come back as
// *ImageError; a target that collapses to zero pixels as *GeometryError.
func (FileRasterizer) Rasterize(path string, spec GridSpec) (*PixelGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ImageError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &ImageError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}
	return Resample(img, spec)
}

// Resample scales img to the spec'd pixel geometry and normalizes it to
// three-channel RGB, discarding alpha and expanding grayscale/palette
// sources.
func Resample(img image.Image, spec GridSpec) (*PixelGrid, error) {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW < 1 || srcH < 1 {
		return nil, &ImageError{Err: fmt.Errorf("empty source image %dx%d", srcW, srcH)}
	}

	w, h := spec.PixelWidth, spec.PixelHeight
	if w == 0 {
		aspect := float64(srcW) / float64(srcH)
		w = int(math.Round(float64(h) * aspect * spec.Correction))
	}
	if w < 1 || h < 1 {
		return nil, &GeometryError{Op: "resample", Detail: fmt.Sprintf("target %dx%d", w, h)}
	}

	interp := resize.Lanczos3
	if spec.Fast {
		interp = resize.NearestNeighbor
	}
	scaled := resize.Resize(uint(w), uint(h), img, interp)

	grid := &PixelGrid{W: w, H: h, Pix: make([]RGB, w*h)}
	sb := scaled.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := scaled.At(sb.Min.X+x, sb.Min.Y+y).RGBA()
			grid.Pix[y*w+x] = RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
		}
	}
	return grid, nil
}
