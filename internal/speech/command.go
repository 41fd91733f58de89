package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/vovakirdan/tui-nback/internal/registry"
)

// commandTimeout bounds a single utterance so a hung synthesizer cannot
// stall the speech worker forever.
const commandTimeout = 3 * time.Second

func init() {
	registry.Register("espeak", func() registry.Backend {
		return NewCommand("espeak", "eSpeak", "espeak", func(l string) []string { return []string{l} })
	})
	registry.Register("spd-say", func() registry.Backend {
		return NewCommand("spd-say", "Speech Dispatcher", "spd-say", func(l string) []string { return []string{"--wait", l} })
	})
	registry.Register("say", func() registry.Backend {
		return NewCommand("say", "macOS say", "say", func(l string) []string { return []string{l} })
	})
}

// Command speaks by running an external text-to-speech program.
type Command struct {
	id    string
	title string
	bin   string
	args  func(letter string) []string
}

// NewCommand returns a backend that runs bin with args(letter).
func NewCommand(id, title, bin string, args func(letter string) []string) *Command {
	return &Command{id: id, title: title, bin: bin, args: args}
}

func (c *Command) ID() string    { return c.id }
func (c *Command) Title() string { return c.title }

// Available reports whether the program is on PATH.
func (c *Command) Available() bool {
	_, err := exec.LookPath(c.bin)
	return err == nil
}

// Speak runs the program and waits for it to finish.
func (c *Command) Speak(letter string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.bin, c.args(strings.ToLower(letter))...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("speech: %s: %w: %s", c.bin, err, strings.TrimSpace(string(out)))
	}
	return nil
}
