package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brailleRune(t *testing.T, cell string) rune {
	t.Helper()
	runes := glyphs(cell)
	require.Len(t, runes, 1)
	return runes[0]
}

func TestEncodeBrailleGeometry(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		expectedLines int
		expectedCells int
	}{
		{"exact blocks", 8, 8, 2, 4},
		{"width rounds up", 5, 4, 1, 3},
		{"height rounds up", 4, 6, 2, 2},
		{"single pixel", 1, 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := encodeBraille(uniformGrid(tt.width, tt.height, RGB{0, 0, 0}))

			require.Len(t, lines, tt.expectedLines)
			for i, line := range lines {
				assert.Len(t, glyphs(line), tt.expectedCells, "line %d cell count", i)
			}
		})
	}
}

func TestEncodeBrailleDotPatterns(t *testing.T) {
	black := RGB{0, 0, 0}
	white := RGB{255, 255, 255}

	tests := []struct {
		name     string
		dark     [][2]int // (x, y) positions painted black in a 2x4 grid
		expected rune
	}{
		{"all light is the empty cell", nil, '⠀'},
		{"all dark raises every dot", [][2]int{
			{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}, {1, 2}, {0, 3}, {1, 3},
		}, '⣿'},
		{"top-left only is bit zero", [][2]int{{0, 0}}, '⠁'},
		{"top-right only is bit three", [][2]int{{1, 0}}, '⠈'},
		{"bottom-left only is bit six", [][2]int{{0, 3}}, '⡀'},
		{"bottom-right only is bit seven", [][2]int{{1, 3}}, '⢀'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := uniformGrid(2, 4, white)
			for _, p := range tt.dark {
				g.Pix[p[1]*2+p[0]] = black
			}

			lines := encodeBraille(g)

			require.Len(t, lines, 1)
			assert.Equal(t, tt.expected, brailleRune(t, lines[0]))
		})
	}
}

func TestEncodeBrailleCellColorIsMeanRGB(t *testing.T) {
	// Upper half red, lower half blue: the dot shape comes from
	// luminance, the color from the plain average.
	g := uniformGrid(2, 4, RGB{255, 0, 0})
	for y := 2; y < 4; y++ {
		for x := 0; x < 2; x++ {
			g.Pix[y*2+x] = RGB{0, 0, 255}
		}
	}

	lines := encodeBraille(g)

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "\x1b[38;2;127;0;127m")
}

func TestEncodeBrailleEdgePixelsExcluded(t *testing.T) {
	// A 1x1 grid leaves seven sub-pixels out of bounds: they stay off
	// and do not drag the color average toward anything.
	g := uniformGrid(1, 1, RGB{0, 0, 0})

	lines := encodeBraille(g)

	require.Len(t, lines, 1)
	assert.Equal(t, '⠁', brailleRune(t, lines[0]))
	assert.Contains(t, lines[0], "\x1b[38;2;0;0;0m")
}

func TestLuminanceThresholdBoundary(t *testing.T) {
	// Exactly at the threshold counts as light (dot off).
	at := RGB{128, 128, 128}
	below := RGB{127, 127, 127}

	assert.GreaterOrEqual(t, luminance(at), luminanceThreshold)
	assert.Less(t, luminance(below), luminanceThreshold)
}
