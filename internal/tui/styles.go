package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorRed    = lipgloss.Color("#FF5555")
	colorGreen  = lipgloss.Color("#50FA7B")
	colorYellow = lipgloss.Color("#F1FA8C")
	colorCyan   = lipgloss.Color("#8BE9FD")
	colorGray   = lipgloss.Color("#666666")
	colorDim    = lipgloss.Color("#444444")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	liveDotStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	wakeDotStyle = lipgloss.NewStyle().
			Foreground(colorCyan)

	idleDotStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	interimStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	timestampStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	dividerStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	footerDescStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	liveBadgeStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)
)
