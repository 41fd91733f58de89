package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-nback/internal/core"
	"github.com/vovakirdan/tui-nback/internal/nback"
	"github.com/vovakirdan/tui-nback/internal/storage"
)

const progressBarWidth = 30

// ResultSaver records finished games.
type ResultSaver interface {
	SaveResult(r storage.Result) (int64, error)
}

// stateMsg carries a snapshot from the engine subscription.
type stateMsg nback.State

// subscriptionClosedMsg is sent once the engine closes the subscription.
type subscriptionClosedMsg struct{}

// gameStartedMsg reports the outcome of a StartGame call.
type gameStartedMsg struct {
	err error
}

// resultSavedMsg reports the outcome of saving a finished game.
type resultSavedMsg struct {
	id  int64
	err error
}

// finishedChoice is the selection in the end-of-game dialog.
type finishedChoice int

const (
	choicePlayAgain finishedChoice = iota
	choiceHome
)

// GameOptions configures a GameModel.
type GameOptions struct {
	Settings nback.Settings // Applied to the controller before every start
	Store    ResultSaver    // Optional
	Logger   *log.Logger    // Optional
	Theme    Theme
	Config   core.RuntimeConfig
	Now      func() time.Time // Defaults to time.Now
}

// GameModel is the Bubble Tea model for one N-back game. It drives the
// engine only through nback.Controller and learns about every change from
// the state subscription.
type GameModel struct {
	ctl         nback.Controller
	settings    nback.Settings
	store       ResultSaver
	logger      *log.Logger
	theme       Theme
	config      core.RuntimeConfig
	now         func() time.Time
	keyMapper   *KeyMapper
	sub         <-chan nback.State
	unsubscribe func()

	state      nback.State
	startErr   error
	lastResult nback.MatchResult
	lastClaim  int // Index the last verdict belongs to
	saved      bool
	savedID    int64
	startHigh  int // High score when the current game began
	choice     finishedChoice
	width      int
	height     int
	quitting   bool
	backHome   bool
}

// NewGameModel creates a game model and subscribes to ctl.
func NewGameModel(ctl nback.Controller, opts GameOptions) GameModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sub, unsubscribe := ctl.Subscribe()
	state := ctl.State()
	return GameModel{
		ctl:         ctl,
		settings:    opts.Settings,
		store:       opts.Store,
		logger:      opts.Logger,
		theme:       opts.Theme,
		config:      opts.Config,
		now:         opts.Now,
		keyMapper:   NewKeyMapper(),
		sub:         sub,
		unsubscribe: unsubscribe,
		state:       state,
		saved:       state.Phase == nback.PhaseFinished, // Left over from an earlier game
		lastClaim:   -1,
		startHigh:   state.HighScore,
		width:       opts.Config.ScreenW,
		height:      opts.Config.ScreenH,
	}
}

// Init starts the game, the subscription reader and the countdown repaint.
func (m GameModel) Init() tea.Cmd {
	return tea.Batch(m.waitForState(), m.startCmd(), tickCmd(m.config.TickRate))
}

// waitForState returns a command that waits for the next engine snapshot.
func (m GameModel) waitForState() tea.Cmd {
	return func() tea.Msg {
		if m.sub == nil {
			return nil
		}
		st, ok := <-m.sub
		if !ok {
			return subscriptionClosedMsg{}
		}
		return stateMsg(st)
	}
}

// startCmd applies the settings and starts a game off the update loop.
func (m GameModel) startCmd() tea.Cmd {
	ctl, s := m.ctl, m.settings
	return func() tea.Msg {
		ctl.SetMode(s.Mode)
		ctl.SetNBack(s.NBack)
		ctl.SetEventInterval(s.EventInterval)
		return gameStartedMsg{err: ctl.StartGame(s.Size, s.Combinations, s.PercentMatch)}
	}
}

// saveCmd records a finished game in the background.
func (m GameModel) saveCmd(st nback.State) tea.Cmd {
	if m.store == nil {
		return nil
	}
	store, r := m.store, storage.NewResult(m.settings, st)
	return func() tea.Msg {
		id, err := store.SaveResult(r)
		return resultSavedMsg{id: id, err: err}
	}
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil

	case stateMsg:
		return m.handleState(nback.State(msg))

	case subscriptionClosedMsg:
		m.sub = nil
		return m, nil

	case gameStartedMsg:
		m.startErr = msg.err
		if msg.err != nil {
			m.logger.Error("could not start game", "error", msg.err)
		}
		return m, nil

	case resultSavedMsg:
		if msg.err != nil {
			m.logger.Warn("could not save result", "error", msg.err)
		} else {
			m.savedID = msg.id
		}
		return m, nil

	case TickMsg:
		if m.quitting {
			return m, nil
		}
		return m, tickCmd(m.config.TickRate)
	}

	return m, nil
}

// handleState takes a new snapshot. The first Finished snapshot of a game
// saves its result; later ones do not.
func (m GameModel) handleState(st nback.State) (tea.Model, tea.Cmd) {
	prev := m.state
	m.state = st

	if st.Phase == nback.PhaseRunning && (prev.Phase != nback.PhaseRunning || st.Index < prev.Index) {
		// A new game began
		m.saved = false
		m.savedID = 0
		m.lastClaim = -1
		m.startHigh = st.HighScore
		m.choice = choicePlayAgain
	}

	var save tea.Cmd
	if st.Phase == nback.PhaseFinished && !m.saved {
		m.saved = true
		save = m.saveCmd(st)
	}

	return m, tea.Batch(m.waitForState(), save)
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state.Phase == nback.PhaseFinished {
		return m.handleFinishedKey(msg)
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		return m.leave(true)
	}

	switch action {
	case core.ActionVisualMatch:
		m.claim(nback.ChannelVisual)
	case core.ActionAudioMatch:
		m.claim(nback.ChannelAudio)
	case core.ActionMatch:
		// Space is unambiguous only with a single channel
		switch m.state.Mode {
		case nback.ModeVisual:
			m.claim(nback.ChannelVisual)
		case nback.ModeAudio:
			m.claim(nback.ChannelAudio)
		}
	case core.ActionBack:
		return m.leave(false)
	case core.ActionRestart:
		if m.startErr != nil || !m.state.Running() {
			return m, m.startCmd()
		}
	}

	return m, nil
}

// handleFinishedKey drives the Play Again / Home dialog.
func (m GameModel) handleFinishedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if action, _ := m.keyMapper.MapKey(msg); action == core.ActionRestart {
		return m, m.startCmd()
	}

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		return m.leave(true)
	case MenuActionBack:
		return m.leave(false)
	case MenuActionLeft, MenuActionUp:
		m.choice = choicePlayAgain
	case MenuActionRight, MenuActionDown:
		m.choice = choiceHome
	case MenuActionSelect:
		if m.choice == choiceHome {
			return m.leave(false)
		}
		return m, m.startCmd()
	}
	return m, nil
}

func (m *GameModel) claim(ch nback.Channel) {
	var r nback.MatchResult
	if ch == nback.ChannelAudio {
		r = m.ctl.CheckAudioMatch()
	} else {
		r = m.ctl.CheckVisualMatch()
	}
	if r == nback.MatchIgnored {
		return
	}
	m.lastResult = r
	m.lastClaim = m.state.Index
}

// leave stops any running game and exits the program.
func (m GameModel) leave(quit bool) (tea.Model, tea.Cmd) {
	m.ctl.StopGame()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.quitting = quit
	m.backHome = !quit
	return m, tea.Quit
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting || m.backHome {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.startErr != nil {
		b.WriteString(centerText(m.theme.Warning.Render(m.startErr.Error()), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText("R: Retry  |  B: Back", m.width))
		return b.String()
	}

	b.WriteString(m.place(m.renderStimuli()))
	b.WriteString("\n\n")

	if m.state.Phase == nback.PhaseFinished {
		b.WriteString(m.place(m.renderFinished()))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.place(m.renderProgress()))
	b.WriteString("\n")
	b.WriteString(m.place(m.renderVerdict()))
	b.WriteString("\n\n")
	b.WriteString(m.place(m.theme.ControlsHint.Render(m.controls())))
	b.WriteString("\n")
	return b.String()
}

// place centers a possibly styled, possibly multi-line block.
func (m GameModel) place(block string) string {
	if m.width <= 0 {
		return block
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, block)
}

func (m GameModel) renderHeader() string {
	st := m.state
	title := fmt.Sprintf("%d-BACK  %s", m.settings.NBack, strings.ToUpper(m.settings.Mode.String()))

	event := "-"
	if st.Index >= 0 && st.Size > 0 {
		event = fmt.Sprintf("%d/%d", st.Index+1, st.Size)
	}

	parts := []string{
		m.theme.Title.Render(title),
		m.theme.Label.Render("Score ") + m.theme.Value.Render(fmt.Sprint(st.Score)),
		m.theme.Label.Render("High ") + m.theme.Value.Render(fmt.Sprint(st.HighScore)),
		m.theme.Label.Render("Event ") + m.theme.Value.Render(event),
	}
	header := strings.Join(parts, "   ")
	if st.FlashFailure {
		header = m.theme.Flash.Render(" " + title + "  MISS ")
	}
	return m.place(header)
}

// renderStimuli shows the grid, the letter panel, or both side by side.
func (m GameModel) renderStimuli() string {
	var blocks []string
	if m.settings.Mode.HasVisual() {
		blocks = append(blocks, RenderScreen(drawBoard(m.state)))
	}
	if m.settings.Mode.HasAudio() {
		blocks = append(blocks, RenderScreen(drawLetter(m.state)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, joinWithGap(blocks)...)
}

func joinWithGap(blocks []string) []string {
	if len(blocks) < 2 {
		return blocks
	}
	out := make([]string, 0, len(blocks)*2-1)
	for i, b := range blocks {
		if i > 0 {
			out = append(out, "    ")
		}
		out = append(out, b)
	}
	return out
}

// renderProgress draws how much of the current stimulus interval is left.
func (m GameModel) renderProgress() string {
	filled := 0
	if st := m.state; st.Running() && st.Interval > 0 {
		left := st.Remaining(m.now())
		filled = int(int64(progressBarWidth) * int64(left) / int64(st.Interval))
		filled = core.Clamp(filled, 0, progressBarWidth)
	}
	return m.theme.BarFull.Render(strings.Repeat("█", filled)) +
		m.theme.BarEmpty.Render(strings.Repeat("░", progressBarWidth-filled))
}

func (m GameModel) renderVerdict() string {
	if m.lastClaim != m.state.Index {
		return " "
	}
	switch m.lastResult {
	case nback.MatchHit:
		return m.theme.Hit.Render("Match!")
	case nback.MatchDuplicate:
		return m.theme.Muted.Render("Already scored")
	case nback.MatchMiss:
		return m.theme.Miss.Render("Wrong")
	}
	return " "
}

func (m GameModel) controls() string {
	switch m.settings.Mode {
	case nback.ModeAudio:
		return "L/Right/Space: Letter match  |  B: Stop  |  Q: Quit"
	case nback.ModeAudioVisual:
		return "A/Left: Position match  |  L/Right: Letter match  |  B: Stop  |  Q: Quit"
	default:
		return "A/Left/Space: Position match  |  B: Stop  |  Q: Quit"
	}
}

func (m GameModel) renderFinished() string {
	st := m.state

	var b strings.Builder
	b.WriteString(m.theme.DialogTitle.Render("Game finished"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Score: %d   Hits: %d   Misses: %d\n", st.Score, st.Hits, st.Misses)
	if st.Score > m.startHigh {
		b.WriteString(m.theme.Hit.Render("New high score!"))
	} else {
		fmt.Fprintf(&b, "High score: %d", st.HighScore)
	}
	b.WriteString("\n\n")

	again, home := m.theme.ItemNormal, m.theme.ItemNormal
	if m.choice == choicePlayAgain {
		again = m.theme.ItemActive
	} else {
		home = m.theme.ItemActive
	}
	b.WriteString(again.Render(" Play Again ") + "   " + home.Render(" Home "))

	return m.theme.Dialog.Render(b.String())
}

// State returns the last snapshot the model received.
func (m GameModel) State() nback.State {
	return m.state
}

// BackHome returns true if the user asked to return to the home screen.
func (m GameModel) BackHome() bool {
	return m.backHome
}

// IsQuitting returns true if the user requested to quit.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m GameModel) Config() core.RuntimeConfig {
	return m.config
}

// GameResult holds the result of running the game screen.
type GameResult struct {
	Config core.RuntimeConfig
	Last   nback.State
	Quit   bool
}

// RunGame runs the game screen until the user goes home or quits.
func RunGame(ctl nback.Controller, opts GameOptions) (GameResult, error) {
	model := NewGameModel(ctl, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		ctl.StopGame()
		return GameResult{Config: opts.Config}, err
	}

	m, ok := finalModel.(GameModel)
	if !ok {
		return GameResult{Config: opts.Config, Quit: true}, nil
	}

	return GameResult{
		Config: m.Config(),
		Last:   m.State(),
		Quit:   m.IsQuitting(),
	}, nil
}
