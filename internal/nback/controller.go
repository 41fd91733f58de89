package nback

import (
	"sync"
	"time"
)

// Controller is the contract the presentation layer drives. *Engine is the
// real implementation; *Stub is a deterministic double for UI tests.
type Controller interface {
	Settings() Settings
	SetMode(m Mode)
	SetSize(v int)
	SetCombinations(v int)
	SetPercentMatch(v int)
	SetEventInterval(d time.Duration)
	SetNBack(v int)

	StartGame(size, combinations, percentMatch int) error
	StopGame()
	CheckVisualMatch() MatchResult
	CheckAudioMatch() MatchResult

	State() State
	Subscribe() (<-chan State, func())
	HighScore() int
}

var (
	_ Controller = (*Engine)(nil)
	_ Controller = (*Stub)(nil)
)

// StubCalls records what the presentation layer asked a Stub to do.
type StubCalls struct {
	Starts       []Settings
	Stops        int
	VisualChecks int
	AudioChecks  int
}

// Stub is a Controller with no loop or timers. Tests push the states they
// want the UI to see and script the outcome of match claims.
type Stub struct {
	mu       sync.Mutex
	settings Settings
	state    State
	subs     []chan State
	calls    StubCalls

	// StartErr is returned by StartGame when set.
	StartErr error

	// VisualResult and AudioResult are returned by the match checks.
	VisualResult MatchResult
	AudioResult  MatchResult
}

// NewStub returns a Stub reporting settings and an idle state.
func NewStub(settings Settings) *Stub {
	return &Stub{
		settings: settings,
		state: State{
			Phase:    PhaseIdle,
			Mode:     settings.Mode,
			NBack:    settings.NBack,
			Size:     settings.Size,
			GridSide: settings.GridSide(),
			Index:    -1,
		},
	}
}

// Push replaces the current state and delivers it to subscribers.
func (s *Stub) Push(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	for _, ch := range s.subs {
		select {
		case ch <- st:
		default:
		}
	}
}

// Calls returns a copy of the recorded calls.
func (s *Stub) Calls() StubCalls {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.calls
	c.Starts = append([]Settings(nil), s.calls.Starts...)
	return c
}

func (s *Stub) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Stub) SetMode(m Mode)                   { s.update(func(st *Settings) { st.Mode = m }) }
func (s *Stub) SetSize(v int)                    { s.update(func(st *Settings) { st.Size = v }) }
func (s *Stub) SetCombinations(v int)            { s.update(func(st *Settings) { st.Combinations = v }) }
func (s *Stub) SetPercentMatch(v int)            { s.update(func(st *Settings) { st.PercentMatch = v }) }
func (s *Stub) SetEventInterval(d time.Duration) { s.update(func(st *Settings) { st.EventInterval = d }) }
func (s *Stub) SetNBack(v int)                   { s.update(func(st *Settings) { st.NBack = v }) }

func (s *Stub) update(fn func(*Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.settings)
}

// StartGame records the call and, unless StartErr is set, moves the state
// to Running at index 0. It does not run a loop.
func (s *Stub) StartGame(size, combinations, percentMatch int) error {
	s.mu.Lock()
	settings := s.settings
	settings.Size = size
	settings.Combinations = combinations
	settings.PercentMatch = percentMatch
	s.calls.Starts = append(s.calls.Starts, settings)
	err := s.StartErr
	highScore := s.state.HighScore
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.Push(State{
		Phase:     PhaseRunning,
		Mode:      settings.Mode,
		NBack:     settings.NBack,
		Size:      settings.Size,
		GridSide:  settings.GridSide(),
		HighScore: highScore,
		Interval:  settings.EventInterval,
	})
	return nil
}

func (s *Stub) StopGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.Stops++
	if s.state.Phase == PhaseRunning {
		s.state.Phase = PhaseIdle
	}
}

func (s *Stub) CheckVisualMatch() MatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.VisualChecks++
	return s.VisualResult
}

func (s *Stub) CheckAudioMatch() MatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.AudioChecks++
	return s.AudioResult
}

func (s *Stub) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Stub) HighScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.HighScore
}

// Subscribe returns a buffered channel primed with the current state.
func (s *Stub) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan State, subscriberBuffer)
	ch <- s.state
	s.subs = append(s.subs, ch)
	return ch, func() {}
}
