package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#7D56F4"}
	accentColor  = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}
	successColor = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#04B575"}
	warningColor = lipgloss.AdaptiveColor{Light: "#AF5F00", Dark: "#FFA500"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#666666"}
	borderColor  = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#383838"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	activeTypeStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(primaryColor)

	typeStyle = lipgloss.NewStyle().Foreground(mutedColor)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	activePaneStyle = paneStyle.BorderForeground(primaryColor)

	paneTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)

	cursorStyle = lipgloss.NewStyle().Reverse(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)

	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	focusStyle = lipgloss.NewStyle().Bold(true).Foreground(warningColor)

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(successColor).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Padding(0, 1)
)
