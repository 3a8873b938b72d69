package render

import (
	"image"
	"image/color"
	"image/draw"
)

// placeholderSize is the pixel edge of the generated fallback logo.
const placeholderSize = 64

// placeholderImage draws the built-in four-quadrant logo used when the
// requested image cannot be read. Generating it in memory keeps the
// fallback path free of I/O that could itself fail.
func placeholderImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))

	quads := []struct {
		rect image.Rectangle
		fill color.RGBA
	}{
		{image.Rect(0, 0, placeholderSize/2, placeholderSize/2), color.RGBA{246, 83, 20, 255}},
		{image.Rect(placeholderSize/2, 0, placeholderSize, placeholderSize/2), color.RGBA{124, 187, 0, 255}},
		{image.Rect(0, placeholderSize/2, placeholderSize/2, placeholderSize), color.RGBA{0, 161, 241, 255}},
		{image.Rect(placeholderSize/2, placeholderSize/2, placeholderSize, placeholderSize), color.RGBA{255, 187, 0, 255}},
	}
	for _, q := range quads {
		draw.Draw(img, q.rect, &image.Uniform{q.fill}, image.Point{}, draw.Src)
	}
	return img
}

// renderPlaceholder runs the generated logo through the normal resample
// and encode path at the requested geometry. The result is never
// cached: it stands in for a frame, it is not one.
func (r *Renderer) renderPlaceholder(req Request) []string {
	width := req.Height
	if req.Mode == ModeBraille {
		// Braille cells span two pixel columns, so a visually square
		// region needs twice the cell width.
		width = req.Height * 2
	}
	spec := gridSpec(Request{Height: req.Height, Width: width, Mode: req.Mode})
	grid, err := Resample(placeholderImage(), spec)
	if err != nil {
		// Geometry was validated before we got here; an empty frame is
		// the only remaining answer.
		r.logger.Debug("placeholder resample failed", "err", err)
		return nil
	}
	return encode(grid, req.Mode)
}
