package render

import "strings"

const (
	brailleBase = 0x2800

	// luminanceThreshold splits ink from background: darker sub-pixels
	// raise a dot.
	luminanceThreshold = 128
)

// brailleBit maps a sub-pixel position inside a 2x4 block to its dot
// bit, per the Unicode braille layout: bits 0,1,2,6 down the left
// column and 3,4,5,7 down the right.
var brailleBit = [4][2]uint{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

func luminance(c RGB) int {
	// Rec. 601 weights.
	return (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
}

// encodeBraille packs 2x4 pixel blocks into braille glyphs, one output
// line per four pixel rows. Dot shape comes from luminance
// thresholding; the cell color is the mean RGB of the block's in-bounds
// pixels. Sub-pixels beyond the grid edge stay off and are excluded
// from the mean.
func encodeBraille(grid *PixelGrid) []string {
	rows := (grid.H + 3) / 4
	cols := (grid.W + 1) / 2
	return encodeRows(rows, func(row int) string {
		var line strings.Builder
		for col := 0; col < cols; col++ {
			line.WriteString(brailleCell(grid, col*2, row*4))
		}
		return line.String()
	})
}

func brailleCell(grid *PixelGrid, x0, y0 int) string {
	var (
		mask       rune
		sumR, sumG int
		sumB, n    int
	)
	for dy := 0; dy < 4; dy++ {
		for dx := 0; dx < 2; dx++ {
			x, y := x0+dx, y0+dy
			if x >= grid.W || y >= grid.H {
				continue
			}
			c := grid.At(x, y)
			sumR += int(c.R)
			sumG += int(c.G)
			sumB += int(c.B)
			n++
			if luminance(c) < luminanceThreshold {
				mask |= 1 << brailleBit[dy][dx]
			}
		}
	}

	fg := RGB{255, 255, 255}
	if n > 0 {
		fg = RGB{uint8(sumR / n), uint8(sumG / n), uint8(sumB / n)}
	}
	return ComposeGlyph(fg, nil, brailleBase+mask)
}
