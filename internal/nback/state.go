package nback

import "time"

// Phase is the engine's lifecycle state.
type Phase int

const (
	PhaseIdle     Phase = iota // No session, or the last one was stopped
	PhaseRunning               // Playback loop active
	PhaseFinished              // Last stimulus elapsed; terminal until next start
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseRunning:
		return "Running"
	case PhaseFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Channel identifies which stimulus stream a match claim refers to.
type Channel int

const (
	ChannelVisual Channel = iota
	ChannelAudio
)

// MatchResult is the outcome of a single match claim.
type MatchResult int

const (
	MatchIgnored   MatchResult = iota // Not running, or channel not in this mode
	MatchHit                          // Correct claim, scored
	MatchDuplicate                    // Correct claim already scored for this index
	MatchMiss                         // Wrong claim or no reference yet
)

// String returns a human-readable name for the result.
func (r MatchResult) String() string {
	switch r {
	case MatchIgnored:
		return "Ignored"
	case MatchHit:
		return "Hit"
	case MatchDuplicate:
		return "Duplicate"
	case MatchMiss:
		return "Miss"
	default:
		return "Unknown"
	}
}

// State is a snapshot of the session pushed to the presentation layer.
// Stimulus values of 0 mean nothing is shown on that channel.
type State struct {
	Phase    Phase
	Mode     Mode
	NBack    int
	Size     int
	GridSide int

	Index         int // Current position, -1 before the first stimulus
	VisualValue   int
	AudioValue    int
	VisualMatched bool
	AudioMatched  bool

	Score     int
	HighScore int
	Hits      int
	Misses    int

	Finished     bool
	FlashFailure bool

	StepStartedAt time.Time     // When the current stimulus became current
	Interval      time.Duration // How long it stays current
}

// Running reports whether the playback loop is active.
func (s State) Running() bool {
	return s.Phase == PhaseRunning
}

// Letter returns the spoken letter for the current audio stimulus.
func (s State) Letter() string {
	return Letter(s.AudioValue)
}

// GridCell returns the zero-based row and column of the visual stimulus,
// or ok=false when no visual stimulus is shown.
func (s State) GridCell() (row, col int, ok bool) {
	if s.VisualValue < 1 || s.GridSide < 1 {
		return 0, 0, false
	}
	v := s.VisualValue - 1
	return v / s.GridSide, v % s.GridSide, true
}

// Remaining returns how much of the current interval is left at now.
func (s State) Remaining(now time.Time) time.Duration {
	if s.Phase != PhaseRunning || s.StepStartedAt.IsZero() {
		return 0
	}
	left := s.Interval - now.Sub(s.StepStartedAt)
	if left < 0 {
		return 0
	}
	return left
}
