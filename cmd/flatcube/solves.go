package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ilmarin/flatcube/internal/platform/tui"
	"github.com/ilmarin/flatcube/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
)

var solvesCmd = &cobra.Command{
	Use:   "solves [id]",
	Short: "Browse recorded solves",
	Long: `Show the recorded solves, most recent first. By default an
interactive browser opens; --plain prints a table instead, and giving
an ID prints that one solve in full.

Examples:
  flatcube solves
  flatcube solves --plain
  flatcube solves --plain --limit 50
  flatcube solves 17`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSolves,
}

func init() {
	solvesCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a plain table instead of the browser")
	solvesCmd.Flags().IntVar(&flagLimit, "limit", 20, "Max solves to list with --plain")
}

func runSolves(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening solves database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 1 {
		printSolve(store, args[0])
		return
	}

	if flagPlain {
		printSolves(store)
		return
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	if err := tui.RunSolveBrowser(store, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error running browser: %v\n", err)
		os.Exit(1)
	}
}

func printSolve(store *storage.Store, arg string) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: solve ID %q is not a number\n", arg)
		os.Exit(1)
	}

	rec, err := store.SolveByID(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	solved := "no"
	if rec.Solved {
		solved = "yes"
	}
	fmt.Printf("Solve #%d\n", rec.ID)
	fmt.Printf("  Puzzle:   %s\n", rec.PuzzleName())
	fmt.Printf("  Moves:    %d\n", rec.MoveCount)
	fmt.Printf("  Solved:   %s\n", solved)
	fmt.Printf("  Time:     %d:%02d\n", rec.Duration/60, rec.Duration%60)
	fmt.Printf("  Date:     %s\n", rec.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("  Scramble: %s\n", rec.Scramble)
	fmt.Printf("  Moves:    %s\n", rec.Moves)
}

func printSolves(store *storage.Store) {
	records, err := store.RecentSolves(flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving solves: %v\n", err)
		os.Exit(1)
	}

	if len(records) == 0 {
		fmt.Println("No solves recorded yet.")
		fmt.Println()
		fmt.Println("Play 'flatcube play 3 3' and finish a scramble to record one!")
		return
	}

	// Print header
	fmt.Printf("  %-5s  %-7s  %-6s  %-7s  %-7s  %s\n", "ID", "Puzzle", "Moves", "Solved", "Time", "Date")
	fmt.Printf("  %-5s  %-7s  %-6s  %-7s  %-7s  %s\n", "--", "------", "-----", "------", "----", "----")

	for _, r := range records {
		solved := "no"
		if r.Solved {
			solved = "yes"
		}
		fmt.Printf("  %-5d  %-7s  %-6d  %-7s  %d:%02d     %s\n",
			r.ID, r.PuzzleName(), r.MoveCount, solved,
			r.Duration/60, r.Duration%60,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
