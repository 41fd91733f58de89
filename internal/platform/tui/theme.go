package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme contains the visual styles shared by the N-back screens.
type Theme struct {
	// Header
	Title lipgloss.Style
	Label lipgloss.Style
	Value lipgloss.Style

	// Feedback
	Hit     lipgloss.Style
	Miss    lipgloss.Style
	Flash   lipgloss.Style // Header while the failure flash is on
	Muted   lipgloss.Style
	Warning lipgloss.Style

	// Countdown bar
	BarFull  lipgloss.Style
	BarEmpty lipgloss.Style

	// Dialogs and menus
	Dialog       lipgloss.Style
	DialogTitle  lipgloss.Style
	ItemNormal   lipgloss.Style
	ItemActive   lipgloss.Style
	ToggleOn     lipgloss.Style
	ToggleOff    lipgloss.Style
	ControlsHint lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Title: lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Value: lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),

		Hit:     lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),  // Lime green
		Miss:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Bright red
		Flash:   lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("160")).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),

		BarFull:  lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
		BarEmpty: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),

		Dialog:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("255")).Padding(1, 3),
		DialogTitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		ItemNormal:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ItemActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Bold(true),
		ToggleOn:     lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		ToggleOff:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		ControlsHint: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// MonochromeTheme returns a grayscale theme for terminals with poor color.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	theme.Title = lipgloss.NewStyle().Bold(true)
	theme.Hit = lipgloss.NewStyle().Bold(true)
	theme.Miss = lipgloss.NewStyle().Bold(true).Underline(true)
	theme.Flash = lipgloss.NewStyle().Reverse(true)
	theme.BarFull = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	theme.ItemActive = lipgloss.NewStyle().Reverse(true)
	return theme
}

// ThemeByName maps a theme name to a Theme, falling back to the default.
func ThemeByName(name string) Theme {
	if name == "mono" || name == "monochrome" {
		return MonochromeTheme()
	}
	return DefaultTheme()
}
