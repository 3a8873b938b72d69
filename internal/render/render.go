// Package render turns raster images into colored terminal glyphs.
//
// Images are resampled to a character-cell geometry, encoded either as
// half-block glyphs (two pixels per cell, independent foreground and
// background colors) or braille glyphs (a 2x4 monochrome bitmap per
// cell with one averaged color), and wrapped in 24-bit ANSI escape
// sequences. Rendered frames are memoized on disk keyed by the source
// path, its modification time, and the requested geometry, so repeated
// invocations with unchanged inputs skip the whole pipeline.
package render

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// Mode selects the glyph encoding.
type Mode int

const (
	// ModeBlock renders two image rows per character row using the
	// upper-half-block glyph with separate fore/background colors.
	ModeBlock Mode = iota
	// ModeBraille renders a 2x4 pixel block per character using the
	// braille range U+2800..U+28FF.
	ModeBraille
)

// String returns the config/CLI spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeBraille:
		return "braille"
	default:
		return "block"
	}
}

// ParseMode converts a config/CLI string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "block":
		return ModeBlock, nil
	case "braille":
		return ModeBraille, nil
	default:
		return ModeBlock, fmt.Errorf("unknown render mode %q (want block or braille)", s)
	}
}

// Request describes a single render invocation. Height is required and
// measured in character rows. Width is optional (0 means derive from
// the source aspect ratio) and measured in character columns.
type Request struct {
	Path   string
	Height int
	Width  int
	Mode   Mode
}

func (r Request) validate() error {
	if r.Height <= 0 {
		return &GeometryError{Op: "request", Detail: fmt.Sprintf("height %d must be positive", r.Height)}
	}
	if r.Width < 0 {
		return &GeometryError{Op: "request", Detail: fmt.Sprintf("width %d must not be negative", r.Width)}
	}
	return nil
}

// Frame is the result of a render: display-ready lines, top to bottom,
// each a self-contained sequence of ANSI-escaped glyphs. Fallback is
// set when the source image could not be used and the built-in
// placeholder was rendered instead; Reason then carries the cause.
type Frame struct {
	Lines     []string
	Fallback  bool
	Reason    error
	FromCache bool
}

const (
	// blockCorrection compensates for terminal cells being roughly
	// twice as tall as wide when deriving a pixel width for block
	// mode. Braille sub-pixels come out square under the same cell
	// geometry, so braille uses 1.0.
	blockCorrection   = 0.5
	brailleCorrection = 1.0

	// widthFraction caps auto-sized images to a share of the terminal
	// so the info column keeps room.
	widthFraction = 0.4

	fallbackColumns = 80
)

// Renderer orchestrates cache lookup, rasterization, glyph encoding and
// cache store. The zero value is not usable; construct with New.
type Renderer struct {
	cache    Cache
	raster   Rasterizer
	termCols func() int
	logger   *log.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCache sets the frame cache. Defaults to NopCache.
func WithCache(c Cache) Option {
	return func(r *Renderer) { r.cache = c }
}

// WithRasterizer replaces the file rasterizer, mainly for tests.
func WithRasterizer(ra Rasterizer) Option {
	return func(r *Renderer) { r.raster = ra }
}

// WithTerminalColumns overrides terminal width detection.
func WithTerminalColumns(fn func() int) Option {
	return func(r *Renderer) { r.termCols = fn }
}

// WithLogger sets the logger used for non-fatal events.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// New creates a Renderer with the given options.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		cache:    NopCache{},
		raster:   &FileRasterizer{},
		termCols: terminalColumns,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func terminalColumns() int {
	if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cols > 0 {
		return cols
	}
	return fallbackColumns
}

// Render produces display-ready lines for the request. A bad source
// image never fails: it yields the built-in placeholder with Fallback
// set. Geometry violations (non-positive height, a width request that
// resolves to an empty pixel grid) surface as *GeometryError.
func (r *Renderer) Render(req Request) (*Frame, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	key, haveKey := r.cacheKey(req)
	if haveKey {
		if lines, ok := r.cache.Lookup(key); ok {
			return &Frame{Lines: lines, FromCache: true}, nil
		}
	}

	lines, err := r.renderFresh(req)
	if err != nil {
		var imgErr *ImageError
		if errors.As(err, &imgErr) {
			r.logger.Debug("rendering placeholder", "path", req.Path, "err", err)
			return &Frame{Lines: r.renderPlaceholder(req), Fallback: true, Reason: err}, nil
		}
		return nil, err
	}

	if haveKey {
		r.cache.Store(key, lines)
	}
	return &Frame{Lines: lines}, nil
}

// cacheKey stats the source to bind the key to its modification time.
// An unreadable source skips caching; the rasterizer will report the
// real error.
func (r *Renderer) cacheKey(req Request) (Key, bool) {
	fi, err := os.Stat(req.Path)
	if err != nil {
		return Key{}, false
	}
	return Key{
		Path:   req.Path,
		MTime:  fi.ModTime().UnixNano(),
		Height: req.Height,
		Width:  req.Width,
		Mode:   req.Mode,
	}, true
}

func (r *Renderer) renderFresh(req Request) ([]string, error) {
	grid, err := r.rasterize(req)
	if err != nil {
		return nil, err
	}
	return encode(grid, req.Mode), nil
}

// rasterize resolves the request geometry and resamples the source,
// re-running the rasterizer once when an auto-derived width exceeds the
// terminal cap.
func (r *Renderer) rasterize(req Request) (*PixelGrid, error) {
	spec := gridSpec(req)
	grid, err := r.raster.Rasterize(req.Path, spec)
	if err != nil {
		return nil, err
	}

	if req.Width != 0 {
		return grid, nil
	}
	maxPixW := maxPixelWidth(req.Mode, r.termCols())
	if grid.W <= maxPixW {
		return grid, nil
	}

	// Too wide for the terminal share: re-derive the height from the
	// capped width, keeping the row count encodable for the mode.
	aspect := float64(grid.W) / float64(grid.H)
	capped := GridSpec{
		PixelWidth:  maxPixW,
		PixelHeight: alignRows(int(float64(maxPixW)/aspect), req.Mode),
		Correction:  spec.Correction,
	}
	return r.raster.Rasterize(req.Path, capped)
}

// gridSpec translates character-cell targets into pixel targets.
func gridSpec(req Request) GridSpec {
	switch req.Mode {
	case ModeBraille:
		spec := GridSpec{PixelHeight: req.Height * 4, Correction: brailleCorrection}
		if req.Width > 0 {
			spec.PixelWidth = req.Width * 2
		}
		return spec
	default:
		width := req.Width
		// An explicitly square request doubles the pixel width so the
		// rendered region looks square despite 1:2 cell geometry.
		if width > 0 && width == req.Height {
			width *= 2
		}
		return GridSpec{PixelHeight: req.Height * 2, PixelWidth: width, Correction: blockCorrection}
	}
}

func maxPixelWidth(mode Mode, termCols int) int {
	cells := int(float64(termCols) * widthFraction)
	if cells < 1 {
		cells = 1
	}
	if mode == ModeBraille {
		return cells * 2
	}
	return cells
}

// alignRows rounds a pixel row count up to what the encoder consumes
// whole: pairs for block, quads for braille.
func alignRows(rows int, mode Mode) int {
	step := 2
	if mode == ModeBraille {
		step = 4
	}
	if rows < step {
		return step
	}
	if rem := rows % step; rem != 0 {
		rows += step - rem
	}
	return rows
}

func encode(grid *PixelGrid, mode Mode) []string {
	if mode == ModeBraille {
		return encodeBraille(grid)
	}
	return encodeBlocks(grid)
}
