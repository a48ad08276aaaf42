// Package styles holds the colors and styles shared by the terminal UI.
package styles

import (
	"charm.land/lipgloss/v2"
)

// Color palette - ANSI 256 colors used throughout the application
var (
	ColorAccent = lipgloss.Color("141")

	ColorText      = lipgloss.Color("252")
	ColorTextMuted = lipgloss.Color("245")

	ColorError       = lipgloss.Color("196")
	ColorSuccess     = lipgloss.Color("42")
	ColorPlaceholder = lipgloss.Color("240")

	ColorBorder = lipgloss.Color("141")
)

// Result panel
var (
	// PanelBorderStyle colors the rounded frame around a result.
	PanelBorderStyle = lipgloss.NewStyle().
				Foreground(ColorBorder)

	// PanelTitleStyle for the label set into the top border
	PanelTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// TextStyle for normal text
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)
)

// Question input
var (
	// BoxStyle frames the question prompt.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorPlaceholder).
				Italic(true)

	// FooterStyle for key hints
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Feedback
var (
	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// SpinnerStyle colors the progress frames.
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)
)
