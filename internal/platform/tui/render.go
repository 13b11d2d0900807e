package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ilmarin/flatcube/internal/config"
	"github.com/ilmarin/flatcube/internal/core"
)

// StyleTable maps core.Color to lipgloss styles. Face colors come from the
// theme, so the table is built per loaded theme rather than being global.
type StyleTable map[core.Color]lipgloss.Style

// NewStyleTable builds the style table for a theme: the fixed piece, filter
// and alert colors plus one entry per face.
func NewStyleTable(t *config.Theme) StyleTable {
	styles := StyleTable{
		core.ColorDefault:  lipgloss.NewStyle(),
		core.ColorPiece:    styleFromHex(t.Colors.Piece),
		core.ColorFiltered: styleFromHex(t.Colors.Filtered),
		core.ColorAlert:    styleFromHex(t.Colors.Alert),
	}
	for i, a := range t.Axes {
		styles[core.FaceColor(i)] = styleFromHex(a.Pos.Color)
		styles[core.FaceColor(^i)] = styleFromHex(a.Neg.Color)
	}
	return styles
}

func styleFromHex(rgb string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#" + rgb))
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen, styles StyleTable) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			// Collect consecutive cells with same color
			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			// Apply style to the run
			style, ok := styles[startColor]
			if !ok {
				style = styles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
