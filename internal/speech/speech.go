// Package speech provides the backends that voice audio stimuli. Each
// backend registers itself with the registry in init().
package speech

import (
	"fmt"
	"io"
	"os"

	"github.com/vovakirdan/tui-nback/internal/registry"
)

// Auto is the backend name that selects the best available backend.
const Auto = "auto"

// autoOrder is the preference order for Auto.
var autoOrder = []string{"espeak", "spd-say", "say"}

func init() {
	registry.Register("none", func() registry.Backend { return Silent{} })
	registry.Register("bell", func() registry.Backend { return NewBell(os.Stderr) })
}

// Silent drops every letter. Audio games are still playable from the
// on-screen letter panel.
type Silent struct{}

func (Silent) ID() string                { return "none" }
func (Silent) Title() string             { return "Silent" }
func (Silent) Available() bool           { return true }
func (Silent) Speak(letter string) error { return nil }

// Bell rings the terminal bell once per letter.
type Bell struct {
	w io.Writer
}

// NewBell returns a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) ID() string      { return "bell" }
func (b *Bell) Title() string   { return "Terminal bell" }
func (b *Bell) Available() bool { return b.w != nil }

func (b *Bell) Speak(letter string) error {
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		return fmt.Errorf("speech: bell: %w", err)
	}
	return nil
}

// Best returns the first available command backend, or the bell if none
// is installed.
func Best() registry.Backend {
	for _, id := range autoOrder {
		b, err := registry.Create(id)
		if err == nil && b.Available() {
			return b
		}
	}
	return NewBell(os.Stderr)
}

// Resolve returns the backend named by name. "auto" and "" pick Best; a
// named backend that is not available on this machine is an error.
func Resolve(name string) (registry.Backend, error) {
	if name == "" || name == Auto {
		return Best(), nil
	}
	b, err := registry.Create(name)
	if err != nil {
		return nil, err
	}
	if !b.Available() {
		return nil, fmt.Errorf("speech: backend %q is not available on this system", name)
	}
	return b, nil
}
