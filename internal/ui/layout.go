package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	headerLines  = 1
	statusLines  = 1
	footerLines  = 1
	minListWidth = 28
	minPaneSize  = 3
)

// paneSizes returns the outer width of the map and list panes and the body
// height shared by both.
func (m Model) paneSizes() (mapW, listW, bodyH int) {
	bodyH = max(m.height-headerLines-statusLines-footerLines, minPaneSize)
	listW = max(m.width/3, minListWidth)
	if listW > m.width-minListWidth {
		listW = max(m.width/2, minPaneSize)
	}
	mapW = max(m.width-listW, minPaneSize)
	return mapW, listW, bodyH
}

// applyLayout fits the projection, crosshair and overlays to the window.
func (m *Model) applyLayout() {
	mapW, _, bodyH := m.paneSizes()
	m.proj = m.proj.resize(mapW-2, bodyH-2)
	if !m.ready {
		m.centerCursor()
	} else {
		m.cursorCol = min(max(m.cursorCol, 0), m.proj.width-1)
		m.cursorRow = min(max(m.cursorRow, 0), m.proj.height-1)
	}
	m.help.Width = m.width
	m.activity.Width = max(m.width-8, 10)
	m.activity.Height = max(m.height-8, 3)
	m.input.Width = max(m.width-len(m.input.Prompt)-4, 10)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{
		bg.Render("pinmap", styles.Logo),
		bg.Render(fmt.Sprintf("%d pins", len(m.snapshot.Pins)), styles.Text),
	}
	if m.pending > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("resolving %d", m.pending), styles.InfoText))
	}
	if m.snapshot.Degraded() {
		parts = append(parts, bg.Render(fmt.Sprintf("save failed x%d", m.snapshot.SaveFailures), styles.DangerText))
	}
	v := m.proj.view()
	parts = append(parts, bg.Render(fmt.Sprintf("z%d @ %s", v.Zoom, formatCoord(v.CenterLat, v.CenterLng)), styles.MutedText))

	sep := bg.Render(" │ ", styles.FaintText)
	return styles.Header.Width(m.width).MaxHeight(headerLines).Render(strings.Join(parts, sep))
}

func (m Model) renderBody() string {
	mapW, listW, bodyH := m.paneSizes()
	mapPane := m.theme.Pane(m.focus == focusMap && m.mode == modeBrowse, mapW-2, bodyH-2).
		Render(m.renderMap())
	listPane := m.theme.Pane(m.focus == focusList && m.mode == modeBrowse, listW-2, bodyH-2).
		Render(m.renderList(listW-2, bodyH-2))
	return lipgloss.JoinHorizontal(lipgloss.Top, mapPane, listPane)
}

// renderStatus shows the active editor, the latest notice or the
// coordinate under the crosshair.
func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	switch {
	case m.mode != modeBrowse:
		return m.input.View()
	case m.notice != "" && m.alert:
		return styles.DangerText.Render(truncate(m.notice, m.width))
	case m.notice != "":
		return styles.Text.Render(truncate(m.notice, m.width))
	}
	lat, lng := m.proj.coord(m.cursorCol, m.cursorRow)
	return styles.MutedText.Render("cursor " + formatCoord(lat, lng))
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var bindings = m.keys.mapHelp()
	switch {
	case m.mode == modeDraft:
		bindings = m.keys.inputHelp("Drop pin")
	case m.mode == modeRemarks:
		bindings = m.keys.inputHelp("Save remarks")
	case m.focus == focusList:
		bindings = m.keys.listHelp()
	}
	return styles.Footer.Width(m.width).MaxHeight(footerLines).Render(m.help.ShortHelpView(bindings))
}
