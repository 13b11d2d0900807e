// flatcube is a terminal simulator for d-dimensional twisty puzzles,
// rendered as a flat 2D net.
//
// Usage:
//
//	flatcube play <n> <d>    - Play an n-layer d-dimensional puzzle
//	flatcube replay <file>   - Resume a saved solve log
//	flatcube solves          - Browse recorded solves
//	flatcube serve           - Start SSH server for remote play
//
// Global flags:
//
//	--db <path>     - Set database path (default: ~/.flatcube/solves.db)
//	--theme <path>  - Use a custom theme file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagDBPath    string
	flagThemePath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flatcube",
	Short: "flatcube - higher-dimensional twisty puzzles in your terminal",
	Long: `flatcube simulates n-layer d-dimensional twisty puzzles, unfolded
into a flat 2D net of nested squares.

Available commands:
  play     - Play a puzzle of a chosen size
  replay   - Resume a solve from a saved log file
  solves   - Browse recorded solves
  serve    - Start SSH server for remote play

Examples:
  flatcube play 3 3
  flatcube play 3 4 --compact
  flatcube replay logs/2026-08-24_10-30-00.log
  flatcube solves --plain
  flatcube serve --ssh :2222 --n 3 --d 4`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.flatcube/solves.db", "Path to solves database")
	rootCmd.PersistentFlags().StringVar(&flagThemePath, "theme", "", "Path to custom theme file")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(solvesCmd)
	rootCmd.AddCommand(serveCmd)
}
