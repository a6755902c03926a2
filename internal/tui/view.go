package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"clipgrid/internal/media"
	"clipgrid/internal/session"
)

const (
	minCellColumns = 8
	minCellRows    = 3
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading clips…"
	}
	snap := m.sess.Snapshot()
	sections := make([]string, 0, 5)
	if snap.Mode == session.ModeGrid {
		sections = append(sections, m.renderToolbar(snap))
	}
	sections = append(sections, m.renderGrid(snap), m.renderStatus(snap))
	if len(m.issues) > 0 {
		sections = append(sections, m.renderIssues())
	}
	sections = append(sections, m.help.View(m.keys.forMode(snap.Mode == session.ModePresentation)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderToolbar(snap session.Snapshot) string {
	folder := filepath.Base(m.folder)
	if folder == "." || folder == string(filepath.Separator) {
		folder = m.folder
	}
	parts := []string{
		brandStyle.Render("clipgrid"),
		toolbarStyle.Render(folder),
		mutedStyle.Render(snap.Count),
	}
	if !snap.TitlesVisible {
		parts = append(parts, mutedStyle.Render("titles off"))
	}
	return ansi.Truncate(strings.Join(parts, "  "), m.width, "…")
}

// cellSize converts the layout's pixel tile into a terminal box.
func (m *Model) cellSize(snap session.Snapshot) (int, int) {
	cols := max(1, snap.Layout.Columns)
	areaW := float64(m.width*pixelsPerColumn) - m.cfg.Layout.Padding
	cellW := (areaW - m.cfg.Layout.Gap*float64(cols-1)) / float64(cols)
	w := min(int(cellW)/pixelsPerColumn, m.width/cols-1)
	h := int(snap.Layout.CellHeight) / pixelsPerRow
	return max(minCellColumns, w), max(minCellRows, h)
}

func (m *Model) renderGrid(snap session.Snapshot) string {
	if len(snap.Cells) == 0 {
		return mutedStyle.Render("No clips to show.")
	}
	cols := max(1, snap.Layout.Columns)
	w, h := m.cellSize(snap)

	cells := snap.Cells
	total := len(cells)
	if snap.Mode == session.ModePresentation {
		cells = snap.VisibleCells()
		total = max(len(cells), snap.Layout.Columns*snap.Layout.Rows)
	}

	rows := make([]string, 0, (total+cols-1)/cols)
	line := make([]string, 0, cols)
	for i := 0; i < total; i++ {
		var box string
		if i < len(cells) {
			box = m.renderCell(cells[i], snap, w, h)
		} else {
			box = reservedCellStyle.Width(w - 2).Height(h - 2).Render("")
		}
		line = append(line, box)
		if len(line) == cols || i == total-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, spaced(line)...))
			line = line[:0]
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func spaced(boxes []string) []string {
	out := make([]string, 0, len(boxes)*2)
	for i, box := range boxes {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, box)
	}
	return out
}

func (m *Model) renderCell(cell session.Cell, snap session.Snapshot, w, h int) string {
	inner := w - 2
	var lines []string
	if snap.TitlesVisible {
		lines = append(lines, titleStyle.Render(ansi.Truncate(cell.Item.Name, inner, "…")))
	}
	lines = append(lines, durationStyle.Render(media.FormatClipDuration(cell.Item.Duration)))
	if snap.Mode == session.ModePresentation {
		lines = append(lines, progressBar(cell.Progress, inner))
	}
	style := cellStyle
	if cell.Selected && snap.Mode == session.ModeGrid {
		style = selectedCellStyle
	}
	return style.Width(inner).Height(h - 2).Render(strings.Join(lines, "\n"))
}

func progressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	fraction = min(max(fraction, 0), 1)
	filled := int(fraction * float64(width))
	return barFillStyle.Render(strings.Repeat("━", filled)) +
		barEmptyStyle.Render(strings.Repeat("─", width-filled))
}

func (m *Model) renderStatus(snap session.Snapshot) string {
	var parts []string
	if snap.Mode == session.ModePresentation {
		parts = append(parts, modeStyle.Render("presenting"), mutedStyle.Render(m.sess.PresentationSummary()))
		if snap.SlotBuffer != "" {
			parts = append(parts, modeStyle.Render(fmt.Sprintf("slots: %s_", snap.SlotBuffer)))
		}
	}
	if snap.Status != "" {
		parts = append(parts, statusStyle.Render(snap.Status))
	}
	return ansi.Truncate(strings.Join(parts, "  "), m.width, "…")
}

func (m *Model) renderIssues() string {
	lines := make([]string, 0, len(m.issues)+1)
	lines = append(lines, errorStyle.Bold(true).Render("Could not apply order due to the following issues:"))
	for _, issue := range m.issues {
		lines = append(lines, errorStyle.Render(issue))
	}
	return strings.Join(lines, "\n")
}
