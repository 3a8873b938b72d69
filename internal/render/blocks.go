package render

import (
	"strings"
	"sync"
)

// upperHalfBlock fills the top half of a cell, so one glyph shows two
// vertically stacked pixels: upper as foreground, lower as background.
const upperHalfBlock = '▀'

// defaultEncodeWorkers bounds the row-parallel encoding pool. Rows are
// independent and each worker writes to a distinct line index, so the
// only synchronization needed is the final join.
const defaultEncodeWorkers = 4

// encodeRows renders n output rows through a fixed worker pool and
// returns them in row order.
func encodeRows(n int, render func(y int) string) []string {
	lines := make([]string, n)
	workers := defaultEncodeWorkers
	if n < workers {
		workers = n
	}
	if workers <= 1 {
		for y := 0; y < n; y++ {
			lines[y] = render(y)
		}
		return lines
	}

	jobs := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range jobs {
				lines[y] = render(y)
			}
		}()
	}
	for y := 0; y < n; y++ {
		jobs <- y
	}
	close(jobs)
	wg.Wait()
	return lines
}

// encodeBlocks packs pixel-row pairs into half-block glyphs, one output
// line per pair. An odd trailing row reuses the upper color for the
// background.
func encodeBlocks(grid *PixelGrid) []string {
	rows := (grid.H + 1) / 2
	return encodeRows(rows, func(row int) string {
		var line strings.Builder
		y := row * 2
		for x := 0; x < grid.W; x++ {
			upper := grid.At(x, y)
			lower := upper
			if y+1 < grid.H {
				lower = grid.At(x, y+1)
			}
			line.WriteString(ComposeGlyph(upper, &lower, upperHalfBlock))
		}
		return line.String()
	})
}
