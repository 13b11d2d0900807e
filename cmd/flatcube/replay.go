package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ilmarin/flatcube/internal/config"
	"github.com/ilmarin/flatcube/internal/session"
	"github.com/ilmarin/flatcube/internal/solvelog"
)

var replayCmd = &cobra.Command{
	Use:   "replay <log-file>",
	Short: "Resume a saved solve",
	Long: `Load a solve log saved with the in-session save key and resume it:
the scramble is restored and the recorded moves are replayed, so the
puzzle comes up exactly where it was left. Further saves go to a fresh
log file.

Examples:
  flatcube replay logs/2026-08-24_10-30-00.log`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagCompact, "compact", false, "Use the compact net layout")
	replayCmd.Flags().BoolVar(&flagBoxes, "boxes", false, "Draw stickers as boxes instead of face names")
}

func runReplay(cmd *cobra.Command, args []string) {
	l, err := solvelog.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading log: %v\n", err)
		os.Exit(1)
	}

	theme, err := config.LoadTheme(flagThemePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading theme: %v\n", err)
		os.Exit(1)
	}

	if l.Scramble.D() > theme.MaxDim() || l.Scramble.N() > theme.MaxLayers() {
		fmt.Fprintf(os.Stderr, "Error: log puzzle %d^%d exceeds the theme's limits\n",
			l.Scramble.N(), l.Scramble.D())
		os.Exit(1)
	}

	sess, err := session.FromLog(l, theme, time.Now().UnixNano())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error replaying log: %v\n", err)
		os.Exit(1)
	}

	runSession(sess, theme)
}
