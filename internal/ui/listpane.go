package ui

import (
	"fmt"
	"strings"
)

// linesPerPin is the height of one list entry: label then address.
const linesPerPin = 2

// listWindow returns the first visible entry so the cursor row stays on
// screen.
func listWindow(cursor, total, visible int) int {
	if visible <= 0 || total <= visible {
		return 0
	}
	start := cursor - visible + 1
	return min(max(start, 0), total-visible)
}

// renderList draws the pin list pane body at the given inner size.
func (m Model) renderList(width, height int) string {
	styles := m.theme.Styles()
	pins := m.snapshot.Pins

	title := styles.AccentText.Bold(true).Render(fmt.Sprintf("Pins (%d)", len(pins)))
	if len(pins) == 0 {
		hint := styles.MutedText.Render(truncate("Move the crosshair and press enter to drop a pin.", width))
		return title + "\n\n" + hint
	}

	visible := max((height-1)/linesPerPin, 1)
	start := listWindow(m.listRow, len(pins), visible)
	end := min(start+visible, len(pins))

	lines := []string{title}
	for i := start; i < end; i++ {
		p := pins[i]
		marker := "  "
		if m.sel != nil && m.sel.IsSelected(p.ID) {
			marker = "◉ "
		}
		label := padRight(marker+truncate(singleLine(p.Label()), width-2), width)
		addr := padRight("  "+truncate(p.Address, width-2), width)

		switch {
		case i == m.listRow && m.focus == focusList:
			lines = append(lines, styles.Selected.Render(label), styles.Selected.Render(addr))
		case m.sel != nil && m.sel.IsSelected(p.ID):
			lines = append(lines, styles.AccentText.Render(label), styles.MutedText.Render(addr))
		case strings.TrimSpace(p.Remarks) == "":
			lines = append(lines, styles.MutedText.Render(label), styles.FaintText.Render(addr))
		default:
			lines = append(lines, styles.Text.Render(label), styles.MutedText.Render(addr))
		}
	}
	return strings.Join(lines, "\n")
}
