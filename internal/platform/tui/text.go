package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// centerText centers plain text within the given width, measuring by
// display cells so wide runes and box glyphs line up.
func centerText(text string, width int) string {
	w := runewidth.StringWidth(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// truncate shortens plain text to width display cells, marking the cut.
func truncate(text string, width int) string {
	return runewidth.Truncate(text, width, ".")
}
