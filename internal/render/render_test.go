package render

import (
	"image/color"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRasterizer wraps a Rasterizer and counts invocations, for
// verifying that cache hits skip rasterization entirely.
type countingRasterizer struct {
	inner Rasterizer
	calls int
}

func (c *countingRasterizer) Rasterize(path string, spec GridSpec) (*PixelGrid, error) {
	c.calls++
	return c.inner.Rasterize(path, spec)
}

func newTestRenderer(cache Cache, raster *countingRasterizer, cols int) *Renderer {
	return New(
		WithCache(cache),
		WithRasterizer(raster),
		WithTerminalColumns(func() int { return cols }),
	)
}

func TestRenderEndToEndUniformRed(t *testing.T) {
	// 100x50 red source, height 10, block mode, auto width:
	// rasterized at 20 pixel rows, width round(20*2*0.5)=20, packed
	// into 10 lines of 20 half-block glyphs, all red on red.
	path := writePNG(t, createTestImage(100, 50, color.RGBA{255, 0, 0, 255}))
	r := newTestRenderer(NopCache{}, &countingRasterizer{inner: FileRasterizer{}}, 80)

	frame, err := r.Render(Request{Path: path, Height: 10, Mode: ModeBlock})

	require.NoError(t, err)
	assert.False(t, frame.Fallback)
	require.Len(t, frame.Lines, 10)
	for _, line := range frame.Lines {
		assert.Len(t, glyphs(line), 20)
		assert.Contains(t, line, "\x1b[38;2;255;0;0m")
		assert.Contains(t, line, "\x1b[48;2;255;0;0m")
	}
}

func TestRenderIsIdempotentWithinTTL(t *testing.T) {
	path := writePNG(t, createTestImage(40, 40, color.RGBA{0, 128, 255, 255}))
	raster := &countingRasterizer{inner: FileRasterizer{}}
	r := newTestRenderer(NewDirCache(t.TempDir(), DefaultTTL, nil), raster, 80)
	req := Request{Path: path, Height: 8, Mode: ModeBraille}

	first, err := r.Render(req)
	require.NoError(t, err)
	callsAfterFirst := raster.calls
	require.Positive(t, callsAfterFirst)

	second, err := r.Render(req)
	require.NoError(t, err)

	assert.Equal(t, first.Lines, second.Lines, "cached output must be byte-identical")
	assert.True(t, second.FromCache)
	assert.Equal(t, callsAfterFirst, raster.calls, "second render must not rasterize")
}

func TestRenderMTimeChangeInvalidatesCache(t *testing.T) {
	path := writePNG(t, createTestImage(40, 40, color.RGBA{10, 200, 30, 255}))
	raster := &countingRasterizer{inner: FileRasterizer{}}
	r := newTestRenderer(NewDirCache(t.TempDir(), DefaultTTL, nil), raster, 80)
	req := Request{Path: path, Height: 6, Mode: ModeBlock}

	_, err := r.Render(req)
	require.NoError(t, err)
	callsAfterFirst := raster.calls

	// Content unchanged, mtime bumped: the key changes, so the next
	// render recomputes.
	bumped := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, bumped, bumped))

	frame, err := r.Render(req)
	require.NoError(t, err)

	assert.False(t, frame.FromCache)
	assert.Greater(t, raster.calls, callsAfterFirst)
}

func TestRenderSquareRequestDoublesBlockWidth(t *testing.T) {
	path := writePNG(t, createTestImage(64, 64, color.RGBA{200, 200, 0, 255}))
	r := newTestRenderer(NopCache{}, &countingRasterizer{inner: FileRasterizer{}}, 120)

	frame, err := r.Render(Request{Path: path, Height: 10, Width: 10, Mode: ModeBlock})

	require.NoError(t, err)
	require.Len(t, frame.Lines, 10)
	for _, line := range frame.Lines {
		assert.Len(t, glyphs(line), 20, "square request resamples at double pixel width")
	}
}

func TestRenderAutoWidthCapRederivesHeight(t *testing.T) {
	// Terminal of 20 columns caps block images at 8 cells. The wide
	// source would resample to 20 columns, so the facade re-runs the
	// rasterizer with the capped width and an even re-derived height.
	path := writePNG(t, createTestImage(100, 50, color.RGBA{5, 5, 5, 255}))
	raster := &countingRasterizer{inner: FileRasterizer{}}
	r := newTestRenderer(NopCache{}, raster, 20)

	frame, err := r.Render(Request{Path: path, Height: 10, Mode: ModeBlock})

	require.NoError(t, err)
	assert.Equal(t, 2, raster.calls, "cap triggers a second resample pass")
	require.Len(t, frame.Lines, 4)
	for _, line := range frame.Lines {
		assert.Len(t, glyphs(line), 8)
	}
}

func TestRenderBrailleAutoWidth(t *testing.T) {
	// Square source, height 2 cells: 8 pixel rows, auto width 8 pixel
	// columns, so 2 lines of 4 braille cells.
	path := writePNG(t, createTestImage(64, 64, color.RGBA{0, 0, 0, 255}))
	r := newTestRenderer(NopCache{}, &countingRasterizer{inner: FileRasterizer{}}, 80)

	frame, err := r.Render(Request{Path: path, Height: 2, Mode: ModeBraille})

	require.NoError(t, err)
	require.Len(t, frame.Lines, 2)
	for _, line := range frame.Lines {
		assert.Len(t, glyphs(line), 4)
		for _, g := range glyphs(line) {
			assert.Equal(t, '⣿', g, "black source raises every dot")
		}
	}
}

func TestRenderGeometryErrors(t *testing.T) {
	r := newTestRenderer(NopCache{}, &countingRasterizer{inner: FileRasterizer{}}, 80)

	tests := []struct {
		name string
		req  Request
	}{
		{"zero height", Request{Path: "x.png", Height: 0}},
		{"negative height", Request{Path: "x.png", Height: -3}},
		{"negative width", Request{Path: "x.png", Height: 5, Width: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Render(tt.req)

			var geomErr *GeometryError
			require.ErrorAs(t, err, &geomErr)
		})
	}
}

func TestRenderMissingImageFallsBack(t *testing.T) {
	r := newTestRenderer(NopCache{}, &countingRasterizer{inner: FileRasterizer{}}, 80)

	frame, err := r.Render(Request{Path: "/does/not/exist.png", Height: 6, Mode: ModeBlock})

	require.NoError(t, err, "a bad image must not surface as an error")
	assert.True(t, frame.Fallback)
	assert.Error(t, frame.Reason)
	assert.Len(t, frame.Lines, 6)
}

func TestRenderFallbackIsNotCached(t *testing.T) {
	cache := NewMemCache()
	r := newTestRenderer(cache, &countingRasterizer{inner: FileRasterizer{}}, 80)

	frame, err := r.Render(Request{Path: "/does/not/exist.png", Height: 4, Mode: ModeBraille})
	require.NoError(t, err)
	require.True(t, frame.Fallback)

	assert.Empty(t, cache.entries)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in       string
		expected Mode
		wantErr  bool
	}{
		{"block", ModeBlock, false},
		{"braille", ModeBraille, false},
		{"BRAILLE", ModeBraille, false},
		{"", ModeBlock, false},
		{"sixel", ModeBlock, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			mode, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mode)
		})
	}
}
