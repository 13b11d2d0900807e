package tui

import (
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilmarin/flatcube/internal/config"
	"github.com/ilmarin/flatcube/internal/core"
	"github.com/ilmarin/flatcube/internal/layout"
	"github.com/ilmarin/flatcube/internal/session"
	"github.com/ilmarin/flatcube/internal/solvelog"
	"github.com/ilmarin/flatcube/internal/storage"
)

const (
	// tickRate drives the alert blink; the net itself only changes on input.
	tickRate = 30

	// minScreenWidth keeps room for the status line under narrow nets.
	minScreenWidth = 72
)

// Model is the Bubble Tea model hosting one interactive solve.
type Model struct {
	session  *session.Session
	lay      layout.Layout
	screen   *core.Screen
	store    *storage.Store
	styles   StyleTable
	boxes    bool
	started  time.Time
	saved    bool // Whether the solve has been written to storage
	quitting bool
}

// NewModel creates a Bubble Tea model for the given session. The screen is
// sized to the net, not the terminal: the net has a fixed geometry and one
// status line below it.
func NewModel(sess *session.Session, lay layout.Layout, store *storage.Store, theme *config.Theme, boxes bool) Model {
	return Model{
		session: sess,
		lay:     lay,
		screen:  core.NewScreen(max(lay.Width, minScreenWidth), lay.Height+1),
		store:   store,
		styles:  NewStyleTable(theme),
		boxes:   boxes,
		started: time.Now(),
	}
}

// Init starts the frame tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(tickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey feeds keyboard input to the session one rune at a time.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	for _, r := range keyRunes(msg) {
		m.session.ProcessKey(r)
	}
	return m, nil
}

// keyRunes maps a Bubble Tea key event to the session's input runes. Keys
// without a printable rune use the session's sentinel runes.
func keyRunes(msg tea.KeyMsg) []rune {
	switch msg.Type {
	case tea.KeyRunes:
		return msg.Runes
	case tea.KeySpace:
		return []rune{' '}
	case tea.KeyEnter:
		return []rune{session.KeyEnter}
	case tea.KeyBackspace:
		return []rune{session.KeyBackspace}
	case tea.KeyEscape:
		return []rune{session.KeyEscape}
	}
	return nil
}

// handleTick advances the session one frame and records a finished solve.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.session.Tick()

	if m.session.JustSolved() && !m.saved {
		if m.store != nil {
			//nolint:errcheck // Best-effort save, the session continues regardless
			m.store.SaveSolve(m.solveRecord())
		}
		m.saved = true
	}

	return m, tickCmd(tickRate)
}

// solveRecord snapshots the finished solve for storage.
func (m Model) solveRecord() storage.SolveRecord {
	l := m.session.ToLog()

	scramble, _ := json.Marshal(l.Scramble)
	var moves []byte
	if raw, err := solvelog.EncodeMoves(l.Moves); err == nil {
		moves, _ = json.Marshal(raw)
	}

	return storage.SolveRecord{
		N:         m.session.N(),
		D:         m.session.D(),
		Scramble:  string(scramble),
		Moves:     string(moves),
		MoveCount: m.session.MoveCount(),
		Solved:    true,
		Duration:  int(time.Since(m.started).Seconds()),
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.session.Render(m.screen, m.lay, m.boxes)
	return RenderScreen(m.screen, m.styles)
}

// Run starts the Bubble Tea program with the given model.
func Run(sess *session.Session, lay layout.Layout, store *storage.Store, theme *config.Theme, boxes bool) error {
	model := NewModel(sess, lay, store, theme, boxes)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
