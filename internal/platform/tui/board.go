package tui

import (
	"github.com/vovakirdan/tui-nback/internal/core"
	"github.com/vovakirdan/tui-nback/internal/nback"
)

// Grid cell size in characters. Cells are wider than tall so they look
// square in a typical terminal font.
const (
	cellW = 7
	cellH = 3
)

// Letter panel size in characters.
const (
	letterW = 11
	letterH = 7
)

// boardSize returns the buffer size for a grid of the given side.
func boardSize(side int) (w, h int) {
	return side * cellW, side * cellH
}

// drawBoard renders the position grid for st into a fresh screen. The lit
// cell turns green once a match was claimed for it, and every cell border
// turns red while the failure flash is on.
func drawBoard(st nback.State) *core.Screen {
	side := st.GridSide
	if side < 1 {
		return core.NewScreen(0, 0)
	}

	w, h := boardSize(side)
	screen := core.NewScreen(w, h)

	border := core.ColorBoard
	if st.FlashFailure {
		border = core.ColorFailure
	}

	litRow, litCol, lit := st.GridCell()
	if !st.Running() {
		lit = false
	}

	fill := core.ColorStimulus
	if st.VisualMatched {
		fill = core.ColorMatched
	}

	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			r := core.NewRect(col*cellW, row*cellH, cellW, cellH)
			screen.DrawBox(r, border)
			if lit && row == litRow && col == litCol {
				screen.DrawRect(r.Inset(1), '█', fill)
			}
		}
	}

	return screen
}

// drawLetter renders the audio letter panel for st. The frame turns green
// once a letter match was claimed and red while the failure flash is on.
func drawLetter(st nback.State) *core.Screen {
	screen := core.NewScreen(letterW, letterH)

	border := core.ColorBoard
	switch {
	case st.AudioMatched:
		border = core.ColorMatched
	case st.FlashFailure:
		border = core.ColorFailure
	}
	screen.DrawBox(core.NewRect(0, 0, letterW, letterH), border)

	if st.Running() && st.AudioValue > 0 {
		screen.DrawTextCentered(letterH/2, st.Letter(), core.ColorLetter)
	}
	return screen
}
