package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles shared by show, stats and watch.
var (
	// Colors.
	colorPurple = lipgloss.Color("#A855F7")
	colorRed    = lipgloss.Color("#EF4444")
	colorYellow = lipgloss.Color("#EAB308")
	colorDim    = lipgloss.Color("#6B7280")
	colorCyan   = lipgloss.Color("#06B6D4")
	colorWhite  = lipgloss.Color("#F9FAFB")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	rateLimitLabelStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Bold(true)

	usageLabelStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	inputStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	countStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true)
)
