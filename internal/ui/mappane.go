package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// glyph is what occupies one map cell. Higher values draw over lower ones.
type glyph int

const (
	glyphEmpty glyph = iota
	glyphGrid
	glyphPin
	glyphSelected
	glyphDraft
	glyphCursor
)

const (
	gridCols = 8
	gridRows = 4
)

var glyphRunes = map[glyph]string{
	glyphEmpty:    " ",
	glyphGrid:     "·",
	glyphPin:      "●",
	glyphSelected: "◉",
	glyphDraft:    "◆",
	glyphCursor:   "+",
}

// mapGlyphs lays out pins, the draft and the crosshair on the map grid.
func (m Model) mapGlyphs() [][]glyph {
	p := m.proj
	cells := make([][]glyph, p.height)

	// Graticule anchored to world cells so it scrolls with the map.
	originCol := int(math.Round(p.centerLng/p.degPerCol())) - p.midCol()
	originRow := -int(math.Round(p.centerLat/p.degPerRow())) - p.midRow()
	for row := range cells {
		cells[row] = make([]glyph, p.width)
		if mod(originRow+row, gridRows) != 0 {
			continue
		}
		for col := range cells[row] {
			if mod(originCol+col, gridCols) == 0 {
				cells[row][col] = glyphGrid
			}
		}
	}

	put := func(col, row int, g glyph) {
		if cells[row][col] < g {
			cells[row][col] = g
		}
	}

	for _, pn := range m.snapshot.Pins {
		col, row, ok := p.cell(pn.Lat, pn.Lng)
		if !ok {
			continue
		}
		g := glyphPin
		if m.sel != nil && m.sel.IsSelected(pn.ID) {
			g = glyphSelected
		}
		put(col, row, g)
	}

	if m.drafts != nil {
		if d, ok := m.drafts.Current(); ok {
			if col, row, on := p.cell(d.Lat, d.Lng); on {
				put(col, row, glyphDraft)
			}
		}
	}

	if m.mode == modeBrowse && m.focus == focusMap {
		put(m.cursorCol, m.cursorRow, glyphCursor)
	}
	return cells
}

// renderMap draws the map pane body, styling runs of identical glyphs.
func (m Model) renderMap() string {
	styles := m.theme.Styles()
	styleFor := map[glyph]lipgloss.Style{
		glyphGrid:     styles.FaintText,
		glyphPin:      styles.Marker,
		glyphSelected: styles.MarkerSelected,
		glyphDraft:    styles.DraftMarker,
		glyphCursor:   styles.Crosshair,
	}

	cells := m.mapGlyphs()
	lines := make([]string, len(cells))
	for i, row := range cells {
		var b strings.Builder
		for start := 0; start < len(row); {
			g := row[start]
			end := start + 1
			for end < len(row) && row[end] == g {
				end++
			}
			run := strings.Repeat(glyphRunes[g], end-start)
			if style, ok := styleFor[g]; ok {
				run = style.Render(run)
			}
			b.WriteString(run)
			start = end
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
