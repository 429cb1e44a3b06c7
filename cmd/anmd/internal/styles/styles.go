// Package styles holds the lipgloss palette shared by the CLI and the TUI.
package styles

import "github.com/charmbracelet/lipgloss"

// Terminal palette (ANSI indexes so the user's theme applies).
var (
	ColorMuted   = lipgloss.Color("8")
	ColorAccent  = lipgloss.Color("4")
	ColorError   = lipgloss.Color("1")
	ColorSuccess = lipgloss.Color("2")
	ColorWarning = lipgloss.Color("3")
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	LabelStyle = lipgloss.NewStyle().Bold(true).Width(14)
	DimStyle   = lipgloss.NewStyle().Foreground(ColorMuted)

	// Log line styles, keyed by event outcome.
	LogInfoStyle    = lipgloss.NewStyle()
	LogWrittenStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	LogNoticeStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	LogErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)

	StatusStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	ErrorBlockStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(ColorError)

	FocusedBorder  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorSuccess)
	DisabledBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorMuted)

	DiffAddStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	DiffDelStyle = lipgloss.NewStyle().Foreground(ColorError)
)
