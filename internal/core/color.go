package core

// Color is a foreground color for a screen cell. The platform layer maps
// each value to an ANSI 256-color code.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// Roles used by the board renderer.
const (
	ColorBoard    = ColorGray         // Grid lines
	ColorStimulus = ColorBrightCyan   // Lit cell
	ColorMatched  = ColorBrightGreen  // Lit cell after a correct claim
	ColorFailure  = ColorBrightRed    // Border during the failure flash
	ColorLetter   = ColorBrightYellow // Spoken letter caption
)
