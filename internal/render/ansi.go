package render

import (
	"fmt"
	"strings"
)

// Reset clears all SGR attributes.
const Reset = "\x1b[0m"

func foregroundSeq(c RGB) string {
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
}

func backgroundSeq(c RGB) string {
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B)
}

// ComposeGlyph wraps a single glyph in 24-bit truecolor escapes. The
// background is optional (braille cells carry only a foreground). Every
// glyph ends with a full reset so lines can be truncated or placed next
// to unrelated text without color bleeding.
func ComposeGlyph(fg RGB, bg *RGB, glyph rune) string {
	var b strings.Builder
	b.WriteString(foregroundSeq(fg))
	if bg != nil {
		b.WriteString(backgroundSeq(*bg))
	}
	b.WriteRune(glyph)
	b.WriteString(Reset)
	return b.String()
}
