package nback

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultFlashDuration is how long the failure flash stays on after a miss.
const DefaultFlashDuration = 200 * time.Millisecond

const (
	speechQueueSize  = 4
	subscriberBuffer = 16
)

// HighScoreStore is the persistence collaborator: read once at engine
// construction, written at most once per finished session.
type HighScoreStore interface {
	ReadHighScore() (int, error)
	WriteHighScore(score int) error
}

// Speaker renders a letter as sound. Calls are fire-and-forget from the
// engine's point of view; errors are logged and otherwise ignored.
type Speaker interface {
	Speak(letter string) error
}

// EngineConfig holds the engine's collaborators and initial settings.
type EngineConfig struct {
	// Settings are the initial pending settings; the setters change them.
	Settings Settings

	// Store persists the high score. Optional.
	Store HighScoreStore

	// Speaker voices audio stimuli. Optional.
	Speaker Speaker

	// Clock drives the playback loop. Defaults to SystemClock.
	Clock Clock

	// Source seeds sequence generation. Defaults to a time-based source.
	Source rand.Source

	// FlashDuration is how long FlashFailure stays set after a miss.
	FlashDuration time.Duration

	// Logger receives engine events. Defaults to a discarding logger.
	Logger *log.Logger
}

// DefaultEngineConfig returns a config with stock settings and real time.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Settings:      DefaultSettings(),
		Clock:         SystemClock{},
		FlashDuration: DefaultFlashDuration,
	}
}

// session is one started game. Sequences are immutable once generated.
type session struct {
	settings Settings
	visual   Sequence // nil when the mode has no visual channel
	audio    Sequence // nil when the mode has no audio channel
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// Engine runs N-back sessions. All session mutations (loop steps, match
// claims, flash timers) are serialized by a single mutex, and at most one
// playback loop is alive at a time.
type Engine struct {
	logger        *log.Logger
	store         HighScoreStore
	speaker       Speaker
	clock         Clock
	gen           *Generator
	flashDuration time.Duration

	// runMu serializes StartGame, StopGame and Close so loop handover is atomic.
	runMu sync.Mutex

	mu       sync.Mutex
	settings Settings
	sess     *session
	state    State
	flashGen uint64
	subs     map[int]chan State
	nextSub  int
	closed   bool

	speech     chan string
	speechDone chan struct{}
	bg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewEngine creates an idle engine. The high score is read from the store
// once here; a failed read counts as no high score.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Source == nil {
		cfg.Source = rand.NewSource(time.Now().UnixNano())
	}
	if cfg.FlashDuration <= 0 {
		cfg.FlashDuration = DefaultFlashDuration
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	e := &Engine{
		logger:        cfg.Logger,
		store:         cfg.Store,
		speaker:       cfg.Speaker,
		clock:         cfg.Clock,
		gen:           NewGenerator(cfg.Source),
		flashDuration: cfg.FlashDuration,
		settings:      cfg.Settings,
		subs:          make(map[int]chan State),
	}

	e.state = State{
		Phase:     PhaseIdle,
		Mode:      cfg.Settings.Mode,
		NBack:     cfg.Settings.NBack,
		Size:      cfg.Settings.Size,
		GridSide:  cfg.Settings.GridSide(),
		Index:     -1,
		HighScore: e.readHighScore(),
	}

	if e.speaker != nil {
		e.speech = make(chan string, speechQueueSize)
		e.speechDone = make(chan struct{})
		go e.speechWorker()
	}

	return e
}

func (e *Engine) readHighScore() int {
	if e.store == nil {
		return 0
	}
	score, err := e.store.ReadHighScore()
	if err != nil {
		e.logger.Warn("could not read high score", "error", err)
		return 0
	}
	return score
}

// Settings returns the pending settings used by the next StartGame.
func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// SetMode sets the mode for the next game.
func (e *Engine) SetMode(m Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings.Mode = m
}

// SetSize sets the sequence length for the next game.
func (e *Engine) SetSize(v int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings.Size = v
}

// SetCombinations sets the alphabet size for the next game.
func (e *Engine) SetCombinations(v int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings.Combinations = v
}

// SetPercentMatch sets the target match percentage for the next game.
func (e *Engine) SetPercentMatch(v int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings.PercentMatch = v
}

// SetEventInterval sets how long each stimulus stays current.
func (e *Engine) SetEventInterval(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings.EventInterval = d
}

// SetNBack sets the lag distance for the next game.
func (e *Engine) SetNBack(v int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings.NBack = v
}

// HighScore returns the best score known to the engine.
func (e *Engine) HighScore() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.HighScore
}

// State returns the current session snapshot.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe returns a channel receiving every state change, starting with
// the current state. Slow readers lose intermediate snapshots, never the
// latest one. The returned function unsubscribes and closes the channel.
func (e *Engine) Subscribe() (<-chan State, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := make(chan State, subscriberBuffer)
	if e.closed {
		close(ch)
		return ch, func() {}
	}

	id := e.nextSub
	e.nextSub++
	ch <- e.state
	e.subs[id] = ch

	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if sub, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(sub)
		}
	}
}

// StartGame validates the pending settings with the given size, alphabet
// and match percentage, generates the sequences, cancels any running loop
// and starts a new session at index 0. On a configuration error nothing
// changes.
func (e *Engine) StartGame(size, combinations, percentMatch int) error {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	settings := e.settings
	e.mu.Unlock()

	settings.Size = size
	settings.Combinations = combinations
	settings.PercentMatch = percentMatch
	if err := settings.Validate(); err != nil {
		return err
	}

	sess, err := e.newSession(settings)
	if err != nil {
		return err
	}

	// Previous loop must be gone before the new one touches state
	e.cancelSession()

	e.mu.Lock()
	e.settings = settings
	e.sess = sess
	e.state = State{
		Phase:     PhaseRunning,
		Mode:      settings.Mode,
		NBack:     settings.NBack,
		Size:      settings.Size,
		GridSide:  settings.GridSide(),
		HighScore: e.state.HighScore,
		Interval:  settings.EventInterval,
	}
	e.flashGen++
	e.enterStepLocked(sess, 0)
	e.publishLocked()
	e.mu.Unlock()

	e.logger.Info("game started",
		"mode", settings.Mode.Key(),
		"n", settings.NBack,
		"size", settings.Size,
		"combinations", settings.Combinations,
		"percent", settings.PercentMatch,
		"interval", settings.EventInterval,
	)

	go e.run(sess)
	return nil
}

// newSession generates the sequences for settings. Audio-Visual games get a
// second sequence that differs from the first as a whole.
func (e *Engine) newSession(settings Settings) (*session, error) {
	primary, err := e.gen.Generate(settings.Size, settings.Combinations, settings.PercentMatch, settings.NBack)
	if err != nil {
		return nil, err
	}

	sess := &session{settings: settings, done: make(chan struct{})}
	switch settings.Mode {
	case ModeAudio:
		sess.audio = primary
	case ModeAudioVisual:
		secondary, err := e.gen.GenerateDistinct(primary, settings.Size, settings.Combinations, settings.PercentMatch, settings.NBack)
		if err != nil {
			return nil, err
		}
		sess.visual = primary
		sess.audio = secondary
	default:
		sess.visual = primary
	}

	e.logger.Debug("sequences generated", "visual", []int(sess.visual), "audio", []int(sess.audio))

	sess.ctx, sess.cancel = context.WithCancel(context.Background())
	return sess, nil
}

// StopGame cancels the running loop immediately and returns the engine to
// Idle. It is not a normal finish: no high score is written. Calling it
// while idle or finished does nothing.
func (e *Engine) StopGame() {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	e.stopLocked()
}

// stopLocked requires runMu.
func (e *Engine) stopLocked() {
	e.mu.Lock()
	running := e.sess != nil && e.state.Phase == PhaseRunning
	e.mu.Unlock()
	if !running {
		return
	}

	e.cancelSession()

	e.mu.Lock()
	defer e.mu.Unlock()
	// The loop may have finished normally before it saw the cancel
	if e.state.Phase != PhaseRunning {
		return
	}
	e.sess = nil
	e.state.Phase = PhaseIdle
	e.state.VisualMatched = false
	e.state.AudioMatched = false
	e.state.FlashFailure = false
	e.flashGen++
	e.publishLocked()
	e.logger.Info("game stopped", "index", e.state.Index, "score", e.state.Score)
}

// cancelSession cancels the current session's loop and waits for it to
// exit. Requires runMu.
func (e *Engine) cancelSession() {
	e.mu.Lock()
	sess := e.sess
	e.mu.Unlock()
	if sess == nil {
		return
	}
	sess.cancel()
	<-sess.done
}

// Close stops any running game, closes subscriber channels, and waits for
// pending speech and high-score writes. The engine cannot be restarted.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.runMu.Lock()
		e.stopLocked()
		e.cancelSession()

		e.mu.Lock()
		e.closed = true
		for id, ch := range e.subs {
			delete(e.subs, id)
			close(ch)
		}
		e.mu.Unlock()
		e.runMu.Unlock()

		if e.speech != nil {
			close(e.speech)
			<-e.speechDone
		}
		e.bg.Wait()
	})
}

// run is the playback loop: one stimulus per interval, then finalize.
// It suspends only in the select, which is where cancellation is observed.
func (e *Engine) run(sess *session) {
	defer close(sess.done)

	for i := 0; i < sess.settings.Size; i++ {
		if i > 0 && !e.advance(sess, i) {
			return
		}

		if sess.audio != nil {
			e.speak(Letter(sess.audio[i]))
		}

		select {
		case <-sess.ctx.Done():
			return
		case <-e.clock.After(sess.settings.EventInterval):
		}
	}

	e.finish(sess)
}

// advance moves the session to index i. Returns false if the session was
// cancelled or superseded.
func (e *Engine) advance(sess *session, i int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sess.ctx.Err() != nil || e.sess != sess {
		return false
	}
	e.enterStepLocked(sess, i)
	e.publishLocked()
	return true
}

// enterStepLocked resets per-index flags and exposes the stimuli at i.
func (e *Engine) enterStepLocked(sess *session, i int) {
	st := &e.state
	st.Index = i
	st.VisualMatched = false
	st.AudioMatched = false
	st.VisualValue = valueAt(sess.visual, i)
	st.AudioValue = valueAt(sess.audio, i)
	st.StepStartedAt = e.clock.Now()
}

// finish finalizes a completed session exactly once.
func (e *Engine) finish(sess *session) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sess.ctx.Err() != nil || e.sess != sess {
		return
	}

	st := &e.state
	if st.Score > st.HighScore {
		st.HighScore = st.Score
		e.persistHighScore(st.Score)
	}
	st.Phase = PhaseFinished
	st.Finished = true
	st.VisualMatched = false
	st.AudioMatched = false
	e.publishLocked()

	e.logger.Info("game finished",
		"score", st.Score,
		"hits", st.Hits,
		"misses", st.Misses,
		"highscore", st.HighScore,
	)
}

// CheckVisualMatch claims the current grid position matches the one N
// steps back.
func (e *Engine) CheckVisualMatch() MatchResult {
	return e.checkMatch(ChannelVisual)
}

// CheckAudioMatch claims the current letter matches the one N steps back.
func (e *Engine) CheckAudioMatch() MatchResult {
	return e.checkMatch(ChannelAudio)
}

func (e *Engine) checkMatch(ch Channel) MatchResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess := e.sess
	st := &e.state
	if sess == nil || st.Phase != PhaseRunning || sess.ctx.Err() != nil {
		return MatchIgnored
	}

	seq, matched := sess.visual, &st.VisualMatched
	if ch == ChannelAudio {
		seq, matched = sess.audio, &st.AudioMatched
	}
	if seq == nil {
		return MatchIgnored
	}

	if !seq.IsMatch(st.Index, sess.settings.NBack) {
		st.Misses++
		e.flashLocked()
		e.publishLocked()
		return MatchMiss
	}

	if *matched {
		return MatchDuplicate
	}
	*matched = true
	st.Score++
	st.Hits++
	e.publishLocked()
	return MatchHit
}

// flashLocked raises the failure flash and schedules its own clear. Only
// the most recent flash may clear it.
func (e *Engine) flashLocked() {
	e.flashGen++
	gen := e.flashGen
	e.state.FlashFailure = true

	time.AfterFunc(e.flashDuration, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.flashGen != gen || !e.state.FlashFailure {
			return
		}
		e.state.FlashFailure = false
		e.publishLocked()
	})
}

// publishLocked pushes a snapshot to every subscriber without blocking.
// A full buffer drops its oldest snapshot.
func (e *Engine) publishLocked() {
	snapshot := e.state
	for _, ch := range e.subs {
		select {
		case ch <- snapshot:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// persistHighScore writes the score in the background. Requires mu.
func (e *Engine) persistHighScore(score int) {
	if e.store == nil {
		return
	}
	e.bg.Add(1)
	go func() {
		defer e.bg.Done()
		if err := e.store.WriteHighScore(score); err != nil {
			e.logger.Warn("could not save high score", "score", score, "error", err)
		}
	}()
}

// speak queues a letter for the speech worker, dropping it if the worker
// is behind.
func (e *Engine) speak(letter string) {
	if e.speech == nil {
		return
	}
	select {
	case e.speech <- letter:
	default:
		e.logger.Debug("speech queue full, dropping letter", "letter", letter)
	}
}

func (e *Engine) speechWorker() {
	defer close(e.speechDone)
	for letter := range e.speech {
		if err := e.speaker.Speak(letter); err != nil {
			e.logger.Debug("speech failed", "letter", letter, "error", err)
		}
	}
}

func valueAt(seq Sequence, i int) int {
	if i < 0 || i >= len(seq) {
		return 0
	}
	return seq[i]
}
