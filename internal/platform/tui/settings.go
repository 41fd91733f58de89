package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-nback/internal/config"
	"github.com/vovakirdan/tui-nback/internal/core"
	"github.com/vovakirdan/tui-nback/internal/nback"
)

type settingsField int

const (
	fieldPreset settingsField = iota
	fieldMode
	fieldNBack
	fieldSize
	fieldCombinations
	fieldPercent
	fieldInterval
	fieldSave
	fieldCancel
)

var settingsFields = []settingsField{
	fieldPreset, fieldMode, fieldNBack, fieldSize, fieldCombinations,
	fieldPercent, fieldInterval, fieldSave, fieldCancel,
}

// Adjustment limits for the settings screen.
const (
	maxNBack        = 9
	maxSize         = 100
	maxCombinations = 25
	percentStep     = 5
	intervalStep    = 250
	minIntervalMs   = 500
	maxIntervalMs   = 5000
)

// SettingsModel is the Bubble Tea model for editing the game settings.
type SettingsModel struct {
	game      config.GameSettings
	cursor    int
	err       error
	theme     Theme
	width     int
	height    int
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	saved     bool
	done      bool
}

// NewSettingsModel creates a settings editor starting from game.
func NewSettingsModel(game config.GameSettings, theme Theme, cfg core.RuntimeConfig) SettingsModel {
	m := SettingsModel{
		game:      game,
		theme:     theme,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	m.validate()
	return m
}

// Init initializes the settings model.
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the settings screen.
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

func (m SettingsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.done = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(settingsFields)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		m.adjust(settingsFields[m.cursor], -1)

	case MenuActionRight:
		m.adjust(settingsFields[m.cursor], 1)

	case MenuActionSelect:
		switch settingsFields[m.cursor] {
		case fieldSave:
			if m.err != nil {
				return m, nil
			}
			m.saved = true
			m.done = true
			return m, tea.Quit
		case fieldCancel:
			m.done = true
			return m, tea.Quit
		default:
			m.adjust(settingsFields[m.cursor], 1)
		}
	}

	return m, nil
}

// adjust moves a field one step in dir and revalidates.
func (m *SettingsModel) adjust(field settingsField, dir int) {
	g := &m.game
	switch field {
	case fieldPreset:
		presets := config.Presets()
		idx := -1
		if p, ok := config.MatchPreset(*g); ok {
			for i, candidate := range presets {
				if candidate == p {
					idx = i
				}
			}
		}
		switch {
		case idx < 0 && dir > 0:
			idx = 0
		case idx < 0:
			idx = len(presets) - 1
		default:
			idx = (idx + dir + len(presets)) % len(presets)
		}
		_ = config.ApplyPreset(g, presets[idx])

	case fieldMode:
		modes := nback.Modes()
		current, _ := nback.ParseMode(g.Mode)
		idx := 0
		for i, mode := range modes {
			if mode == current {
				idx = i
			}
		}
		g.Mode = modes[(idx+dir+len(modes))%len(modes)].Key()

	case fieldNBack:
		g.NBack = core.Clamp(g.NBack+dir, 1, maxNBack)

	case fieldSize:
		g.Size = core.Clamp(g.Size+dir, 1, maxSize)

	case fieldCombinations:
		g.Combinations = core.Clamp(g.Combinations+dir, 1, maxCombinations)

	case fieldPercent:
		g.PercentMatch = core.Clamp(g.PercentMatch+dir*percentStep, 0, 100)

	case fieldInterval:
		g.IntervalMs = core.Clamp(g.IntervalMs+dir*intervalStep, minIntervalMs, maxIntervalMs)
	}
	m.validate()
}

func (m *SettingsModel) validate() {
	_, m.err = m.game.Settings()
}

// View renders the settings screen.
func (m SettingsModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(m.theme.Title.Render("  S E T T I N G S  "), m.width))
	b.WriteString("\n\n")

	for i, field := range settingsFields {
		if field == fieldSave {
			b.WriteString("\n")
		}
		cursor := "  "
		style := m.theme.ItemNormal
		if i == m.cursor {
			cursor = "> "
			style = m.theme.ItemActive
		}

		line := style.Render(m.fieldLabel(field))
		if value := m.fieldValue(field); value != "" {
			line = fmt.Sprintf("%-14s %s", line, m.theme.Value.Render("< "+value+" >"))
		}
		b.WriteString(centerText(cursor+line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(centerText(m.theme.Warning.Render(m.errorText()), m.width))
	} else {
		b.WriteString(centerText(m.theme.Muted.Render(m.gridText()), m.width))
	}
	b.WriteString("\n\n")
	controls := "Up/Down: Navigate  |  Left/Right: Adjust  |  Enter: Select  |  Esc: Cancel"
	b.WriteString(centerText(m.theme.ControlsHint.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

func (m SettingsModel) fieldLabel(field settingsField) string {
	switch field {
	case fieldPreset:
		return "Difficulty"
	case fieldMode:
		return "Mode"
	case fieldNBack:
		return "N"
	case fieldSize:
		return "Stimuli"
	case fieldCombinations:
		return "Symbols"
	case fieldPercent:
		return "Matches"
	case fieldInterval:
		return "Interval"
	case fieldSave:
		return "Save"
	case fieldCancel:
		return "Cancel"
	}
	return ""
}

func (m SettingsModel) fieldValue(field settingsField) string {
	g := m.game
	switch field {
	case fieldPreset:
		if p, ok := config.MatchPreset(g); ok {
			return string(p)
		}
		return "custom"
	case fieldMode:
		mode, err := nback.ParseMode(g.Mode)
		if err != nil {
			return g.Mode
		}
		return mode.String()
	case fieldNBack:
		return fmt.Sprint(g.NBack)
	case fieldSize:
		return fmt.Sprint(g.Size)
	case fieldCombinations:
		return fmt.Sprint(g.Combinations)
	case fieldPercent:
		return fmt.Sprintf("%d%%", g.PercentMatch)
	case fieldInterval:
		return fmt.Sprintf("%.2fs", float64(g.IntervalMs)/1000)
	}
	return ""
}

func (m SettingsModel) errorText() string {
	var cfgErr *nback.ConfigurationError
	if errors.As(m.err, &cfgErr) {
		return fmt.Sprintf("%s %v %s", cfgErr.Field, cfgErr.Value, cfgErr.Reason)
	}
	return m.err.Error()
}

func (m SettingsModel) gridText() string {
	mode, _ := nback.ParseMode(m.game.Mode)
	if !mode.HasVisual() {
		return fmt.Sprintf("Letters A-%s", nback.Letter(core.Min(m.game.Combinations, 26)))
	}
	side := nback.Settings{Combinations: m.game.Combinations}.GridSide()
	return fmt.Sprintf("%dx%d grid", side, side)
}

// Game returns the edited game section.
func (m SettingsModel) Game() config.GameSettings {
	return m.game
}

// Saved reports whether the user confirmed the changes.
func (m SettingsModel) Saved() bool {
	return m.saved
}

// Err returns the current validation error, if any.
func (m SettingsModel) Err() error {
	return m.err
}

// Config returns the current runtime config (may have been updated by resize).
func (m SettingsModel) Config() core.RuntimeConfig {
	return m.config
}

// SettingsResult holds the result of running the settings screen.
type SettingsResult struct {
	Game   config.GameSettings // Unchanged unless Saved
	Saved  bool
	Config core.RuntimeConfig
}

// RunSettings runs the settings editor.
func RunSettings(game config.GameSettings, theme Theme, cfg core.RuntimeConfig) (SettingsResult, error) {
	model := NewSettingsModel(game, theme, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return SettingsResult{Game: game, Config: cfg}, err
	}

	m, ok := finalModel.(SettingsModel)
	if !ok || !m.Saved() {
		return SettingsResult{Game: game, Config: cfg}, nil
	}

	return SettingsResult{Game: m.Game(), Saved: true, Config: m.Config()}, nil
}
