package panel

import "github.com/charmbracelet/lipgloss"

var ( //nolint: gochecknoglobals
	colorOpen   = lipgloss.Color("#8BC34A")
	colorClosed = lipgloss.Color("#e53935")
	colorMuted  = lipgloss.Color("#6c7a89")
	colorFocus  = lipgloss.Color("#2196F3")
)

type styles struct {
	Title   lipgloss.Style
	Open    lipgloss.Style
	Closed  lipgloss.Style
	Button  lipgloss.Style
	Focused lipgloss.Style
	Frame   lipgloss.Style
}

func defaultStyles() styles {
	button := lipgloss.NewStyle().
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted)

	return styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(colorMuted),
		Open:    lipgloss.NewStyle().Bold(true).Foreground(colorOpen),
		Closed:  lipgloss.NewStyle().Bold(true).Foreground(colorClosed),
		Button:  button,
		Focused: button.BorderForeground(colorFocus).Foreground(colorFocus).Bold(true),
		Frame:   lipgloss.NewStyle().Padding(1, 2),
	}
}
