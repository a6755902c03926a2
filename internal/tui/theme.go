package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha.
const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"
	colorPink     lipgloss.Color = "#f5c2e7"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
)

const (
	colorAccent   = colorPink
	colorFocus    = colorLavender
	colorSuccess  = colorGreen
	colorError    = colorRed
	colorWarning  = colorYellow
	colorProgress = colorTeal
)

var (
	toolbarStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	brandStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorSubtext0)
	modeStyle    = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)

	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Foreground(colorText)
	selectedCellStyle = cellStyle.BorderForeground(colorFocus)
	reservedCellStyle = lipgloss.NewStyle().
				Border(lipgloss.HiddenBorder()).
				Foreground(colorOverlay0)

	titleStyle    = lipgloss.NewStyle().Bold(true)
	durationStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
	barFillStyle  = lipgloss.NewStyle().Foreground(colorProgress)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorSurface0)
)
