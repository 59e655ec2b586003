package ui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the views.
type Styles struct {
	Title    lipgloss.Style
	Tab      lipgloss.Style
	TabOn    lipgloss.Style
	Selected lipgloss.Style
	Dim      lipgloss.Style
	Marked   lipgloss.Style
	Totals   lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Tab:      lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("244")),
		TabOn:    lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(lipgloss.Color("212")).Underline(true),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Marked:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Totals:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
