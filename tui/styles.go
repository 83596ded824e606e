package tui

import "github.com/charmbracelet/lipgloss"

// UI Symbols
// These constants provide a consistent set of visual cues for the progress view.
const (
	SymbolSuccess  = "✔" // Heavy Check Mark
	SymbolFailure  = "✘" // Heavy Ballot X
	SymbolRunning  = "…" // Horizontal Ellipsis (in-progress)
	SymbolListItem = "▪" // Black Small Square

	barFilledChar = "█"
	barEmptyChar  = "░"
)

// Color Palette (terminal theme)
var (
	colorPrimary = lipgloss.Color("39")  // Blue
	colorSuccess = lipgloss.Color("42")  // Green
	colorFailure = lipgloss.Color("196") // Red
	colorMuted   = lipgloss.Color("241") // Grey
)

// Styles used by the progress view.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	BarFilledStyle = lipgloss.NewStyle().Foreground(colorPrimary)
	BarEmptyStyle  = lipgloss.NewStyle().Foreground(colorMuted)

	SuccessStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	FailureStyle = lipgloss.NewStyle().Foreground(colorFailure)
	MutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)

	SummaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)
