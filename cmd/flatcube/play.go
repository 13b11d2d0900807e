package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ilmarin/flatcube/internal/config"
	"github.com/ilmarin/flatcube/internal/filter"
	"github.com/ilmarin/flatcube/internal/layout"
	"github.com/ilmarin/flatcube/internal/platform/tui"
	"github.com/ilmarin/flatcube/internal/session"
	"github.com/ilmarin/flatcube/internal/storage"
)

var (
	flagSeed    int64
	flagCompact bool
	flagBoxes   bool
	flagFilters string
)

var playCmd = &cobra.Command{
	Use:   "play <layers> <dimensions>",
	Short: "Play a puzzle",
	Long: `Start an interactive solve of an n-layer d-dimensional puzzle.

The puzzle starts solved. Press the scramble key (= by default) five
times in a row to scramble it; the reset key (-) works the same way.
Turns are keyed in per the active keybind set, undo/redo with z/Z, and
S saves the solve log for later replay.

Examples:
  flatcube play 3 3
  flatcube play 5 2
  flatcube play 3 4 --compact
  flatcube play 3 3 --filters ./corners.txt
  flatcube play 2 7 --boxes`,
	Args: cobra.ExactArgs(2),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Scramble RNG seed (0 = random based on time)")
	playCmd.Flags().BoolVar(&flagCompact, "compact", false, "Use the compact net layout")
	playCmd.Flags().BoolVar(&flagBoxes, "boxes", false, "Draw stickers as boxes instead of face names")
	playCmd.Flags().StringVar(&flagFilters, "filters", "", "Path to a sticker filter file, one expression per line")
}

func runPlay(cmd *cobra.Command, args []string) {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: layers %q is not a number\n", args[0])
		os.Exit(1)
	}
	d, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: dimensions %q is not a number\n", args[1])
		os.Exit(1)
	}

	theme, err := config.LoadTheme(flagThemePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading theme: %v\n", err)
		os.Exit(1)
	}

	if d < 1 || d > theme.MaxDim() {
		fmt.Fprintf(os.Stderr, "Error: dimensions must be between 1 and %d\n", theme.MaxDim())
		os.Exit(1)
	}
	if n < 1 || n > theme.MaxLayers() {
		fmt.Fprintf(os.Stderr, "Error: layers must be between 1 and %d\n", theme.MaxLayers())
		os.Exit(1)
	}

	var filters []filter.Filter
	if flagFilters != "" {
		filters, err = loadFilters(flagFilters, theme)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading filters: %v\n", err)
			os.Exit(1)
		}
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sess := session.New(n, d, theme, seed)
	sess.SetFilters(filters)

	runSession(sess, theme)
}

// runSession opens the store, checks the terminal fits the net, and runs the
// TUI. Shared by play and replay.
func runSession(sess *session.Session, theme *config.Theme) {
	lay := layout.MakeLayout(sess.N(), sess.D(), flagCompact).MoveRight(1)

	// The net has a fixed geometry; warn early instead of rendering garbage.
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		if w < lay.Width || h < lay.Height+1 {
			fmt.Fprintf(os.Stderr, "Warning: terminal is %dx%d but the net needs %dx%d\n",
				w, h, lay.Width, lay.Height+1)
		}
	}

	// Open solve storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open solves database: %v\n", err)
		// Continue without storage - the session still works
		store = nil
	}

	runErr := tui.Run(sess, lay, store, theme, flagBoxes)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running session: %v\n", runErr)
		os.Exit(1)
	}
}

// loadFilters reads a filter file: one expression per line, blank lines and
// #-comments skipped.
func loadFilters(path string, theme *config.Theme) ([]filter.Filter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pos, neg := theme.PosNames(), theme.NegNames()

	var filters []filter.Filter
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" || text[0] == '#' {
			continue
		}
		parsed, err := filter.Parse(text, pos, neg)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		filters = append(filters, parsed)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return filters, nil
}
