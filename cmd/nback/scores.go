package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-nback/internal/nback"
	"github.com/vovakirdan/tui-nback/internal/storage"
)

var (
	flagLimit  int
	flagRecent bool
	flagClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show results",
	Long: `Display the best results for a mode, or a summary of every mode when no
mode is given.

Modes: visual, audio, audiovisual

Examples:
  nback scores
  nback scores visual
  nback scores audio --limit 20
  nback scores --recent
  nback scores visual --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of results to show")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the latest games of every mode")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the results of the mode (all modes when none is given)")
}

func runScores(_ *cobra.Command, args []string) {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if a.store == nil {
		fmt.Fprintln(os.Stderr, "Error: no results database")
		a.Close()
		os.Exit(1)
	}

	var mode *nback.Mode
	if len(args) == 1 {
		m, err := nback.ParseMode(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Modes: visual, audio, audiovisual")
			a.Close()
			os.Exit(1)
		}
		mode = &m
	}

	switch {
	case flagClear:
		key := ""
		if mode != nil {
			key = mode.Key()
		}
		if err := a.store.ClearResults(key); err != nil {
			a.fail(err)
		}
		if mode != nil {
			fmt.Printf("Cleared %s results.\n", *mode)
		} else {
			fmt.Println("Cleared all results.")
		}

	case flagRecent:
		results, err := a.store.RecentResults(flagLimit)
		if err != nil {
			a.fail(err)
		}
		fmt.Println("Recent games")
		fmt.Println()
		printResults(results, true)

	case mode != nil:
		printModeScores(a.store, *mode)

	default:
		printSummary(a.store)
	}
}

func printModeScores(store *storage.Store, mode nback.Mode) {
	results, err := store.TopResults(mode.Key(), flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		return
	}

	fmt.Printf("Best results - %s\n", mode)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'nback play --mode %s' to set the first score!\n", mode.Key())
		return
	}
	printResults(results, false)

	stats, err := store.ModeStats(mode.Key())
	if err == nil {
		fmt.Println()
		fmt.Printf("Games: %d  Best: %d  Avg: %.1f  Max N: %d  Accuracy: %.0f%%\n",
			stats.GamesCount, stats.BestScore, stats.AvgScore, stats.BestNBack, stats.Accuracy()*100)
	}
}

func printSummary(store *storage.Store) {
	fmt.Println("Results by mode")
	fmt.Println()
	fmt.Printf("  %-12s  %-5s  %-4s  %-6s  %-5s  %s\n", "Mode", "Games", "Best", "Avg", "Max N", "Last played")
	fmt.Printf("  %-12s  %-5s  %-4s  %-6s  %-5s  %s\n", "----", "-----", "----", "---", "-----", "-----------")

	for _, mode := range nback.Modes() {
		stats, err := store.ModeStats(mode.Key())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving %s stats: %v\n", mode, err)
			continue
		}
		last := "-"
		if !stats.LastPlayed.IsZero() {
			last = stats.LastPlayed.Local().Format("2006-01-02 15:04")
		}
		fmt.Printf("  %-12s  %-5d  %-4d  %-6.1f  %-5d  %s\n",
			mode, stats.GamesCount, stats.BestScore, stats.AvgScore, stats.BestNBack, last)
	}

	if hs, err := store.ReadHighScore(); err == nil {
		fmt.Println()
		fmt.Printf("High score: %d\n", hs)
	}
}

func printResults(results []storage.Result, withMode bool) {
	if len(results) == 0 {
		fmt.Println("No results recorded yet.")
		return
	}

	if withMode {
		fmt.Printf("  %-4s  %-12s  %-5s  %-3s  %-11s  %s\n", "#", "Mode", "Score", "N", "Hits/Misses", "Date")
		fmt.Printf("  %-4s  %-12s  %-5s  %-3s  %-11s  %s\n", "-", "----", "-----", "-", "-----------", "----")
	} else {
		fmt.Printf("  %-4s  %-5s  %-3s  %-11s  %s\n", "Rank", "Score", "N", "Hits/Misses", "Date")
		fmt.Printf("  %-4s  %-5s  %-3s  %-11s  %s\n", "----", "-----", "-", "-----------", "----")
	}

	for i, r := range results {
		date := r.CreatedAt.Local().Format("2006-01-02 15:04")
		hm := fmt.Sprintf("%d/%d", r.Hits, r.Misses)
		if withMode {
			mode, _ := nback.ParseMode(r.Mode)
			fmt.Printf("  %-4d  %-12s  %-5d  %-3d  %-11s  %s\n", i+1, mode, r.Score, r.NBack, hm, date)
		} else {
			fmt.Printf("  %-4d  %-5d  %-3d  %-11s  %s\n", i+1, r.Score, r.NBack, hm, date)
		}
	}
}
