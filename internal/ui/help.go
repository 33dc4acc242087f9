package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Map",
			items: []helpItem{
				{"arrows", "Move crosshair"},
				{"H/J/K/L", "Pan west/south/north/east"},
				{"+/-", "Zoom in/out"},
				{"0", "Reset view"},
				{"enter", "Select marker or drop a pin"},
				{"r/x", "Edit/delete marker"},
			},
		},
		{
			title: "Pins",
			items: []helpItem{
				{"j/k", "Move up/down"},
				{"g/G", "Go to top/bottom"},
				{"enter", "Select and center"},
				{"r", "Edit remarks"},
				{"x", "Delete pin"},
				{"esc", "Clear selection"},
			},
		},
		{
			title: "Editor",
			items: []helpItem{
				{"enter", "Save"},
				{"esc", "Cancel"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"tab", "Map/list focus"},
				{"a", "Activity log"},
				{"T", "Cycle theme"},
				{"h/?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	return m.overlay(b.String(), 44)
}

// overlay centers content in a bordered modal.
func (m Model) overlay(content string, width int) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(width)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
