package tui

import "github.com/charmbracelet/lipgloss"

// Styles is the lipgloss style set for the full-screen view.
type Styles struct {
	Title   lipgloss.Style
	Pending lipgloss.Style
	Pass    lipgloss.Style
	Fail    lipgloss.Style
	Summary lipgloss.Style
	Muted   lipgloss.Style
	Pane    lipgloss.Style
}

// DefaultStyles returns the standard style set.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color("#0077B6")).Bold(true),
		Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Pass:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Summary: lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Pane:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}
