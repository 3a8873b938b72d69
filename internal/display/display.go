// Package display composes the final two-column output: rendered image
// lines on the left, themed system information on the right.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const columnGap = 2

// Layout describes one composition.
type Layout struct {
	// Left holds the already rendered image lines.
	Left []string
	// Info maps collector keys to "Label: value" strings.
	Info map[string]string
	// Order picks and orders the info keys to show; unknown keys are
	// skipped.
	Order []string
	// UserHost is the title line, e.g. "sam@box".
	UserHost string
	Theme    Theme
}

// Compose interleaves the two columns line by line. The result has
// max(len(left), len(right)) lines; short columns pad with spaces so
// the other column stays aligned. Widths are measured ANSI-aware.
func Compose(l Layout) []string {
	right := infoColumn(l)

	leftWidth := 0
	for _, line := range l.Left {
		if w := lipgloss.Width(line); w > leftWidth {
			leftWidth = w
		}
	}

	rows := len(l.Left)
	if len(right) > rows {
		rows = len(right)
	}

	out := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		var b strings.Builder
		pad := leftWidth
		if i < len(l.Left) {
			b.WriteString(l.Left[i])
			pad = leftWidth - lipgloss.Width(l.Left[i])
		}
		if i < len(right) {
			b.WriteString(strings.Repeat(" ", pad+columnGap))
			b.WriteString(right[i])
		}
		out = append(out, strings.TrimRight(b.String(), " "))
	}
	return out
}

// infoColumn builds the right-hand lines: title, underline, selected
// info entries, then the 16-color strip.
func infoColumn(l Layout) []string {
	lines := make([]string, 0, len(l.Order)+5)
	if l.UserHost != "" {
		lines = append(lines,
			l.Theme.Title.Render(l.UserHost),
			l.Theme.Title.Render(strings.Repeat("-", len(l.UserHost))),
			"",
		)
	}

	for _, key := range l.Order {
		text, ok := l.Info[key]
		if !ok {
			continue
		}
		if label, value, found := strings.Cut(text, ": "); found {
			lines = append(lines, l.Theme.Label.Render(label+":")+" "+value)
		} else {
			lines = append(lines, text)
		}
	}

	lines = append(lines, "", colorStrip())
	return lines
}

// ansi16 is the classic palette rendered as the footer strip.
var ansi16 = [16][3]uint8{
	{0, 0, 0}, {170, 0, 0}, {0, 170, 0}, {170, 85, 0},
	{0, 0, 170}, {170, 0, 170}, {0, 170, 170}, {170, 170, 170},
	{85, 85, 85}, {255, 85, 85}, {85, 255, 85}, {255, 255, 85},
	{85, 85, 255}, {255, 85, 255}, {85, 255, 255}, {255, 255, 255},
}

func colorStrip() string {
	var b strings.Builder
	for _, c := range ansi16 {
		fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm  \x1b[0m", c[0], c[1], c[2])
	}
	return b.String()
}
