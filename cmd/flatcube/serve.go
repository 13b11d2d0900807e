package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ilmarin/flatcube/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagServeN      int
	flagServeD      int
	flagServeComp   bool
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that lets users connect and solve remotely.

Every connection gets its own puzzle session of the configured size.
Finished solves are stored per-server in a shared database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.flatcube/host_key

Examples:
  flatcube serve                          # 3^3 puzzles on :23234
  flatcube serve --ssh :2222 --n 3 --d 4  # 3^4 puzzles on port 2222
  flatcube serve --host-key ./my_host_key # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagServeN, "n", 3, "Puzzle layers served to every connection")
	serveCmd.Flags().IntVar(&flagServeD, "d", 3, "Puzzle dimensions served to every connection")
	serveCmd.Flags().BoolVar(&flagServeComp, "compact", false, "Use the compact net layout")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		ThemePath:   flagThemePath,
		N:           flagServeN,
		D:           flagServeD,
		Compact:     flagServeComp,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting flatcube SSH server on %s\n", cfg.Address)
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
