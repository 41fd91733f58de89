package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-nback/internal/core"
	"github.com/vovakirdan/tui-nback/internal/nback"
)

// HomeChoice is what the user picked on the home screen.
type HomeChoice int

const (
	HomeNone HomeChoice = iota
	HomeStart
	HomeSettings
	HomeScores
	HomeQuit
)

// String returns a human-readable name for the choice.
func (c HomeChoice) String() string {
	switch c {
	case HomeStart:
		return "Start"
	case HomeSettings:
		return "Settings"
	case HomeScores:
		return "Scores"
	case HomeQuit:
		return "Quit"
	default:
		return "None"
	}
}

type homeItem int

const (
	itemStart homeItem = iota
	itemAudio
	itemVisual
	itemSettings
	itemScores
	itemQuit
)

var homeItems = []homeItem{itemStart, itemAudio, itemVisual, itemSettings, itemScores, itemQuit}

// HomeOptions configures the home screen.
type HomeOptions struct {
	Settings  nback.Settings // The toggles start from Settings.Mode
	HighScore int
	Theme     Theme
	Config    core.RuntimeConfig
}

// HomeModel is the Bubble Tea model for the home screen.
type HomeModel struct {
	settings  nback.Settings
	highScore int
	audio     bool
	visual    bool
	cursor    int
	theme     Theme
	width     int
	height    int
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	choice    HomeChoice
}

// NewHomeModel creates a new home model.
func NewHomeModel(opts HomeOptions) HomeModel {
	return HomeModel{
		settings:  opts.Settings,
		highScore: opts.HighScore,
		audio:     opts.Settings.Mode.HasAudio(),
		visual:    opts.Settings.Mode.HasVisual(),
		theme:     opts.Theme,
		width:     opts.Config.ScreenW,
		height:    opts.Config.ScreenH,
		config:    opts.Config,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the home model.
func (m HomeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the home screen.
func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

// handleKey processes keyboard input for menu navigation.
func (m HomeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.choice = HomeQuit
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(homeItems)-1 {
			m.cursor++
		}

	case MenuActionLeft, MenuActionRight:
		m.toggle(homeItems[m.cursor])

	case MenuActionScoreboard:
		m.choice = HomeScores
		return m, tea.Quit

	case MenuActionSelect:
		switch item := homeItems[m.cursor]; item {
		case itemAudio, itemVisual:
			m.toggle(item)
		case itemStart:
			m.choice = HomeStart
			return m, tea.Quit
		case itemSettings:
			m.choice = HomeSettings
			return m, tea.Quit
		case itemScores:
			m.choice = HomeScores
			return m, tea.Quit
		case itemQuit:
			m.choice = HomeQuit
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *HomeModel) toggle(item homeItem) {
	switch item {
	case itemAudio:
		m.audio = !m.audio
	case itemVisual:
		m.visual = !m.visual
	}
}

// Mode returns the mode the toggles select.
func (m HomeModel) Mode() nback.Mode {
	return nback.ModeFromToggles(m.audio, m.visual)
}

// View renders the home screen.
func (m HomeModel) View() string {
	if m.choice != HomeNone {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.Title.Render("  N - B A C K  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.theme.Label.Render("High score: ")+m.theme.Value.Render(fmt.Sprint(m.highScore)), m.width))
	b.WriteString("\n\n")

	for i, item := range homeItems {
		cursor := "  "
		style := m.theme.ItemNormal
		if i == m.cursor {
			cursor = "> "
			style = m.theme.ItemActive
		}
		b.WriteString(centerText(cursor+style.Render(m.itemLabel(item)), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.Muted.Render(m.summary()), m.width))
	b.WriteString("\n\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Left/Right: Toggle  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(m.theme.ControlsHint.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

func (m HomeModel) itemLabel(item homeItem) string {
	switch item {
	case itemStart:
		return "Start"
	case itemAudio:
		return "Audio  " + m.checkbox(m.audio)
	case itemVisual:
		return "Visual " + m.checkbox(m.visual)
	case itemSettings:
		return "Settings"
	case itemScores:
		return "Scores"
	case itemQuit:
		return "Quit"
	}
	return ""
}

func (m HomeModel) checkbox(on bool) string {
	if on {
		return m.theme.ToggleOn.Render("[x]")
	}
	return m.theme.ToggleOff.Render("[ ]")
}

// summary describes the game Start would play.
func (m HomeModel) summary() string {
	s := m.settings
	return fmt.Sprintf("%s  %d-back  %d stimuli  %d%% matches  %s per stimulus",
		m.Mode(), s.NBack, s.Size, s.PercentMatch, s.EventInterval.Round(100*time.Millisecond))
}

// Choice returns what the user picked.
func (m HomeModel) Choice() HomeChoice {
	return m.choice
}

// Config returns the current runtime config (may have been updated by resize).
func (m HomeModel) Config() core.RuntimeConfig {
	return m.config
}

// HomeResult holds the result of running the home screen.
type HomeResult struct {
	Choice HomeChoice
	Mode   nback.Mode
	Audio  bool
	Visual bool
	Config core.RuntimeConfig
}

// RunHome runs the home screen and returns the selection result.
func RunHome(opts HomeOptions) (HomeResult, error) {
	model := NewHomeModel(opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return HomeResult{Choice: HomeQuit, Config: opts.Config}, err
	}

	m, ok := finalModel.(HomeModel)
	if !ok || m.Choice() == HomeNone {
		return HomeResult{Choice: HomeQuit, Config: opts.Config}, nil
	}

	return HomeResult{
		Choice: m.Choice(),
		Mode:   m.Mode(),
		Audio:  m.audio,
		Visual: m.visual,
		Config: m.Config(),
	}, nil
}
