package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/toyrobot/internal/models"
)

var (
	cellStyle = lipgloss.NewStyle().
			Width(3).
			Align(lipgloss.Center)

	emptyCellStyle = cellStyle.
			Foreground(mutedColor)

	wallCellStyle = cellStyle.
			Foreground(warningColor)

	robotCellStyle = cellStyle.
			Foreground(successColor).
			Bold(true)

	cursorCellStyle = cellStyle.
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true)

	axisStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

var robotGlyphs = map[models.Direction]string{
	models.North: "▲",
	models.East:  "▶",
	models.South: "▼",
	models.West:  "◀",
}

// renderBoard draws st with row Size at the top, highlighting the
// placement cursor while p is active.
func renderBoard(st models.State, p placement) string {
	var b strings.Builder
	label := len(fmt.Sprint(st.Size))

	for y := st.Size; y >= 1; y-- {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*d ", label, y)))
		for x := 1; x <= st.Size; x++ {
			pos := models.Position{X: x, Y: y}
			b.WriteString(renderCell(st, pos, p))
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", label+1))
	for x := 1; x <= st.Size; x++ {
		b.WriteString(axisStyle.Inherit(cellStyle).Render(fmt.Sprint(x)))
	}
	return b.String()
}

func renderCell(st models.State, pos models.Position, p placement) string {
	glyph, style := cellGlyph(st, pos)
	if p.active() && p.cursor == pos {
		if st.CellAt(pos) == models.Empty {
			glyph = placementGlyph(p)
		}
		style = cursorCellStyle
	}
	return style.Render(glyph)
}

func cellGlyph(st models.State, pos models.Position) (string, lipgloss.Style) {
	switch st.CellAt(pos) {
	case models.Wall:
		return "█", wallCellStyle
	case models.Robot:
		dir := models.North
		if st.Robot != nil {
			dir = st.Robot.Direction
		}
		return robotGlyphs[dir], robotCellStyle
	}
	return "·", emptyCellStyle
}

func placementGlyph(p placement) string {
	if p.kind == placingRobot {
		return robotGlyphs[p.direction]
	}
	return "█"
}

// renderHistory lists entries one per line, REPORT results inline.
func renderHistory(entries []models.HistoryEntry) string {
	if len(entries) == 0 {
		return helpStyle.Render("No commands yet")
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		line := fmt.Sprintf("%3d  %s", e.Seq, e.Text)
		if e.Result != "" {
			line += "  " + lipgloss.NewStyle().Foreground(cyanColor).Render("→ "+e.Result)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
