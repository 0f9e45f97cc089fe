package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains lipgloss styles for the console
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Nav      lipgloss.Style
	NavItem  lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Muted    lipgloss.Style
	Border   lipgloss.Style
	Notice   lipgloss.Style
	Disabled lipgloss.Style
	Help     lipgloss.Style
	Key      lipgloss.Style
	LogLine  lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33")). // Blue
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Gray
			MarginBottom(1),
		Nav: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginBottom(1),
		NavItem: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33")),
		Status: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")), // Emerald
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(1, 2),
		Notice: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("226")). // Yellow
			Padding(1, 3),
		Disabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(false),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Key: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33")),
		LogLine: lipgloss.NewStyle().
			Foreground(lipgloss.Color("120")), // Green on black feed
	}
}
