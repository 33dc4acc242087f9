package ui

import (
	"fmt"
	"strings"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// formatCoord renders a coordinate pair the way the list and status bar show it.
func formatCoord(lat, lng float64) string {
	return fmt.Sprintf("%.5f, %.5f", lat, lng)
}

// singleLine collapses newlines so remarks fit on one row.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
