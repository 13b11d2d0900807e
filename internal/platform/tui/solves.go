package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ilmarin/flatcube/internal/storage"
)

// Solve browser layout constants
const (
	minWidthForStats = 80  // Minimum width to show the per-size stats panel
	statsPanelWidth  = 26  // Width of the stats panel
	maxBrowserRows   = 200 // Max solves to load
)

// SolvesKeyMap defines the key bindings for the solve browser.
type SolvesKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SolvesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k SolvesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Quit}}
}

// DefaultSolvesKeyMap returns default key bindings.
func DefaultSolvesKeyMap() SolvesKeyMap {
	return SolvesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SolvesModel is the Bubble Tea model for the recorded-solves browser.
type SolvesModel struct {
	store     *storage.Store
	records   []storage.SolveRecord
	stats     *storage.SolveStats // Stats for the highlighted record's size
	table     table.Model
	help      help.Model
	keys      SolvesKeyMap
	width     int
	height    int
	quitting  bool
	showStats bool // Whether to show the per-size stats panel
}

// NewSolvesModel creates a new solve browser model.
func NewSolvesModel(store *storage.Store, width, height int) SolvesModel {
	keys := DefaultSolvesKeyMap()
	h := help.New()
	h.ShowAll = false

	m := SolvesModel{
		store:     store,
		keys:      keys,
		help:      h,
		width:     width,
		height:    height,
		showStats: width >= minWidthForStats,
	}

	if store != nil {
		if records, err := store.RecentSolves(maxBrowserRows); err == nil {
			m.records = records
		}
	}

	m.table = m.createTable()
	m.updateTableRows()
	m.refreshStats()

	return m
}

// createTable creates a new table with appropriate columns.
func (m *SolvesModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Puzzle", Width: 7},
		{Title: "Moves", Width: 6},
		{Title: "Solved", Width: 7},
		{Title: "Time", Width: 8},
		{Title: "Date", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(m.height-8), // Leave room for header, help, and margins
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows updates the table with the loaded records.
func (m *SolvesModel) updateTableRows() {
	rows := make([]table.Row, len(m.records))
	for i, r := range m.records {
		solved := "no"
		if r.Solved {
			solved = "yes"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", r.ID),
			r.PuzzleName(),
			fmt.Sprintf("%d", r.MoveCount),
			solved,
			formatDuration(r.Duration),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// refreshStats reloads the stats panel for the highlighted record's size.
func (m *SolvesModel) refreshStats() {
	m.stats = nil
	cursor := m.table.Cursor()
	if m.store == nil || cursor < 0 || cursor >= len(m.records) {
		return
	}
	rec := m.records[cursor]
	if stats, err := m.store.SizeStats(rec.N, rec.D); err == nil {
		m.stats = stats
	}
}

// Init initializes the solve browser model.
func (m SolvesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the solve browser.
func (m SolvesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			m.refreshStats()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showStats = m.width >= minWidthForStats
		m.table = m.createTable()
		m.updateTableRows()
		m.refreshStats()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the solve browser.
func (m SolvesModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	b.WriteString(titleStyle.Render(centerText("RECORDED SOLVES", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	tableRendered := tableStyle.Render(m.renderTableContent())

	if m.showStats && m.stats != nil {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tableRendered, "  ", m.renderStatsPanel()))
	} else {
		b.WriteString(tableRendered)
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderStatsPanel renders the per-size summary next to the table.
func (m SolvesModel) renderStatsPanel() string {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.records) {
		return ""
	}
	rec := m.records[cursor]

	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(statsPanelWidth).
		Padding(0, 1)

	var p strings.Builder
	fmt.Fprintf(&p, "%s stats\n", rec.PuzzleName())
	p.WriteString(strings.Repeat("-", statsPanelWidth-4))
	p.WriteString("\n")
	fmt.Fprintf(&p, "Solves:    %d\n", m.stats.TotalSolves)
	fmt.Fprintf(&p, "Finished:  %d\n", m.stats.Finished)
	if m.stats.Finished > 0 {
		fmt.Fprintf(&p, "Best:      %d moves\n", m.stats.BestMoves)
		fmt.Fprintf(&p, "Fastest:   %s\n", formatDuration(m.stats.BestDuration))
	}
	if !m.stats.LastPlayed.IsZero() {
		fmt.Fprintf(&p, "Last:      %s\n", m.stats.LastPlayed.Format("Jan 02 15:04"))
	}

	return panelStyle.Render(p.String())
}

// renderTableContent renders the table or empty message.
func (m SolvesModel) renderTableContent() string {
	if len(m.records) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No solves recorded yet.\nFinish a scramble to record one!")
	}

	return m.table.View()
}

// formatDuration renders whole seconds as m:ss.
func formatDuration(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// centerText centers a line within the given width.
func centerText(text string, width int) string {
	pad := (width - lipgloss.Width(text)) / 2
	if pad <= 0 {
		return text
	}
	return strings.Repeat(" ", pad) + text
}

// RunSolveBrowser runs the solve browser screen.
func RunSolveBrowser(store *storage.Store, width, height int) error {
	model := NewSolvesModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
