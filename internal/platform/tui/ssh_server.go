package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/ilmarin/flatcube/internal/config"
	"github.com/ilmarin/flatcube/internal/layout"
	"github.com/ilmarin/flatcube/internal/session"
	"github.com/ilmarin/flatcube/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.flatcube/host_key.
	HostKeyPath string

	// DBPath is the path to the solves database.
	DBPath string

	// ThemePath is an optional custom theme; empty uses the default search order.
	ThemePath string

	// N and D are the puzzle size served to every connection.
	N int
	D int

	// Compact selects the compact net layout.
	Compact bool

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.flatcube/solves.db",
		N:           3,
		D:           3,
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server serving the simulator.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	theme  *config.Theme
	lay    layout.Layout
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
// The theme and net layout are built once and shared by all connections;
// each connection gets its own puzzle session.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "flatcube-ssh",
	})

	theme, err := config.LoadTheme(cfg.ThemePath)
	if err != nil {
		return nil, fmt.Errorf("cannot load theme: %w", err)
	}
	if cfg.D < 1 || cfg.D > theme.MaxDim() {
		return nil, fmt.Errorf("dimension %d out of range 1..%d", cfg.D, theme.MaxDim())
	}
	if cfg.N < 1 || cfg.N > theme.MaxLayers() {
		return nil, fmt.Errorf("layer count %d out of range 1..%d", cfg.N, theme.MaxLayers())
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open solves database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		theme:  theme,
		lay:    layout.MakeLayout(cfg.N, cfg.D, cfg.Compact).MoveRight(1),
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".flatcube", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	if pty.Window.Width < s.lay.Width || pty.Window.Height < s.lay.Height+1 {
		s.logger.Warn("terminal smaller than the net",
			"user", sshSession.User(),
			"need", fmt.Sprintf("%dx%d", s.lay.Width, s.lay.Height+1),
			"have", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height),
		)
	}

	sess := session.New(s.config.N, s.config.D, s.theme, time.Now().UnixNano())
	model := NewModel(sess, s.lay, s.store, s.theme, false)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server",
		"address", s.config.Address,
		"puzzle", fmt.Sprintf("%d^%d", s.config.N, s.config.D),
	)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
