package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-nback/internal/nback"
	"github.com/vovakirdan/tui-nback/internal/storage"
)

// Scoreboard layout constants
const (
	tableMinWidth = 50  // Below this the date column shrinks
	maxScores     = 100 // Max results to load per mode
)

// ScoreSource is what the scoreboard reads from. *storage.Store implements it.
type ScoreSource interface {
	TopResults(mode string, limit int) ([]storage.Result, error)
	ModeStats(mode string) (*storage.ModeStats, error)
	ClearResults(mode string) error
}

var _ ScoreSource = (*storage.Store)(nil)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Clear    key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.PrevMode, k.Clear, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.Clear, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab/right", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab/left", "prev mode"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x x", "clear mode"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	modes      []nback.Mode
	modeCursor int
	source     ScoreSource
	results    []storage.Result
	stats      *storage.ModeStats
	loadErr    error
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	theme      Theme
	width      int
	height     int
	armed      bool // First clear press seen; the second one clears
	quitting   bool
	goingBack  bool
}

// NewScoreboardModel creates a new scoreboard model opened on mode.
func NewScoreboardModel(source ScoreSource, mode nback.Mode, theme Theme, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := ScoreboardModel{
		modes:  nback.Modes(),
		source: source,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		theme:  theme,
		width:  width,
		height: height,
	}
	for i, candidate := range m.modes {
		if candidate == mode {
			m.modeCursor = i
		}
	}

	m.table = m.createTable()
	m.load()

	return m
}

// createTable creates a new table sized to the window.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 7},
		{Title: "N", Width: 4},
		{Title: "Hits/Misses", Width: 12},
		{Title: "Date", Width: 14},
	}

	tableWidth := m.width - 8 // Margins and border
	if tableWidth < tableMinWidth {
		columns[4].Width = 12
	}

	height := m.height - 12 // Title, tabs, stats, help
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// mode returns the mode on the active tab.
func (m ScoreboardModel) mode() nback.Mode {
	return m.modes[m.modeCursor]
}

// load fetches results and stats for the active mode.
func (m *ScoreboardModel) load() {
	m.results, m.stats, m.loadErr = nil, nil, nil
	if m.source != nil {
		modeKey := m.mode().Key()
		results, err := m.source.TopResults(modeKey, maxScores)
		if err != nil {
			m.loadErr = err
		} else {
			m.results = results
			m.stats, m.loadErr = m.source.ModeStats(modeKey)
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current results.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.NBack),
			fmt.Sprintf("%d/%d", r.Hits, r.Misses),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !key.Matches(msg, m.keys.Clear) {
			m.armed = false
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextMode):
			m.modeCursor = (m.modeCursor + 1) % len(m.modes)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevMode):
			m.modeCursor = (m.modeCursor - 1 + len(m.modes)) % len(m.modes)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Clear):
			if !m.armed {
				m.armed = true
				return m, nil
			}
			m.armed = false
			if m.source != nil {
				if err := m.source.ClearResults(m.mode().Key()); err != nil {
					m.loadErr = err
					return m, nil
				}
			}
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.Title.Render("RESULTS - "+m.mode().String()), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderStats(), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, tableStyle.Render(m.renderTableContent())))
	b.WriteString("\n")

	if m.armed {
		b.WriteString(centerText(m.theme.Warning.Render("Press x again to clear "+m.mode().String()+" results"), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.ControlsHint.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTabs renders one tab per mode.
func (m ScoreboardModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.modes))
	for i, mode := range m.modes {
		if i == m.modeCursor {
			tabs[i] = activeTabStyle.Render(mode.String())
		} else {
			tabs[i] = tabStyle.Render(mode.String())
		}
	}
	return strings.Join(tabs, " ")
}

// renderStats renders the aggregate line above the table.
func (m ScoreboardModel) renderStats() string {
	if m.loadErr != nil {
		return m.theme.Warning.Render(truncate("Could not load results: "+m.loadErr.Error(), m.width))
	}
	st := m.stats
	if st == nil || st.GamesCount == 0 {
		return m.theme.Muted.Render("No games played")
	}
	return fmt.Sprintf("Games %d  |  Best %d  |  Avg %.1f  |  Max N %d  |  Accuracy %.0f%%",
		st.GamesCount, st.BestScore, st.AvgScore, st.BestNBack, st.Accuracy()*100)
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.results) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No results recorded yet.\nFinish a game to see it here!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(source ScoreSource, mode nback.Mode, theme Theme, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(source, mode, theme, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
