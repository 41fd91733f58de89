package core

// Action is a semantic input intent, abstracted from physical key presses.
type Action int

const (
	ActionNone        Action = iota
	ActionVisualMatch        // A, Left - claim a position match
	ActionAudioMatch         // L, Right - claim a letter match
	ActionMatch              // Space - claim on whichever single channel is active
	ActionUp                 // W, Up, K
	ActionDown               // S, Down, J
	ActionConfirm            // Enter
	ActionBack               // B, Escape - stop and return home
	ActionRestart            // R - new game after finishing
	ActionQuit               // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionVisualMatch:
		return "VisualMatch"
	case ActionAudioMatch:
		return "AudioMatch"
	case ActionMatch:
		return "Match"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
