package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-nback/internal/config"
	"github.com/vovakirdan/tui-nback/internal/registry"
	"github.com/vovakirdan/tui-nback/internal/speech"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List speech backends and difficulty presets",
	Long:  `Shows the registered speech backends, whether each works on this machine, and the difficulty presets.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	backends := registry.List()

	fmt.Println("Speech backends:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, b := range backends {
		if len(b.ID) > maxIDLen {
			maxIDLen = len(b.ID)
		}
	}

	fmt.Printf("  %-*s  %-9s  %s\n", maxIDLen, "ID", "Available", "Title")
	fmt.Printf("  %-*s  %-9s  %s\n", maxIDLen, "--", "---------", "-----")
	for _, b := range backends {
		avail := "no"
		if b.Available {
			avail = "yes"
		}
		fmt.Printf("  %-*s  %-9s  %s\n", maxIDLen, b.ID, avail, b.Title)
	}
	fmt.Println()
	fmt.Printf("'%s' picks: %s\n", speech.Auto, speech.Best().ID())

	fmt.Println()
	fmt.Println("Difficulty presets:")
	fmt.Println()
	for _, p := range config.Presets() {
		fmt.Printf("  %-7s  %s\n", p, p.Describe())
	}

	fmt.Println()
	fmt.Println("Run 'nback play --speech <id> --preset <name>' to use them.")
}
