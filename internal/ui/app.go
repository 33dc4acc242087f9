package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pinmap/internal/config"
	"github.com/five82/pinmap/internal/pin"
	"github.com/five82/pinmap/internal/prefs"
	"github.com/five82/pinmap/internal/state"
)

// focusArea is the pane receiving navigation keys.
type focusArea int

const (
	focusMap focusArea = iota
	focusList
)

// inputMode tracks whether a text editor owns the keyboard.
type inputMode int

const (
	modeBrowse inputMode = iota
	modeDraft
	modeRemarks
)

const eventBuffer = 64

// Options configures the UI.
type Options struct {
	Context   context.Context
	Repo      *state.Repository
	Selection *state.Selection
	Drafts    *state.Drafts
	MapView   config.MapView
	ThemeName string
	PrefsPath string
	LogFile   string
	Logger    *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	repo      *state.Repository
	sel       *state.Selection
	drafts    *state.Drafts
	logger    *slog.Logger
	prefsPath string
	logFile   string
	home      config.MapView

	// UI state
	theme  Theme
	keys   keyMap
	help   help.Model
	width  int
	height int
	ready  bool
	focus  focusArea
	mode   inputMode

	// Map state
	proj      projection
	cursorCol int
	cursorRow int

	// List state
	listRow int

	// Editors
	input   textinput.Model
	editing pin.ID

	// Data state
	snapshot state.Snapshot
	pending  int
	notice   string
	alert    bool

	// Overlays
	showHelp     bool
	showActivity bool
	activity     viewport.Model

	events      *eventFeed
	unsubscribe func()
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	view := opts.MapView
	if view.Zoom == 0 {
		view = config.DefaultMapView
	}

	input := textinput.New()
	input.Prompt = "remarks> "
	input.Placeholder = "optional"
	input.CharLimit = 500

	m := Model{
		ctx:       ctx,
		repo:      opts.Repo,
		sel:       opts.Selection,
		drafts:    opts.Drafts,
		logger:    logger.With("component", "ui"),
		prefsPath: opts.PrefsPath,
		logFile:   opts.LogFile,
		home:      view,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		proj:      newProjection(view, 1, 1),
		input:     input,
		activity:  viewport.New(0, 0),
	}

	if m.repo != nil {
		m.snapshot = m.repo.Snapshot()
		feed := newEventFeed(eventBuffer)
		unsubscribe := m.repo.Subscribe(feed.send)
		m.events = feed
		m.unsubscribe = func() {
			unsubscribe()
			feed.close()
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, waitForEvent(m.events))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		m.ready = true
		return m, nil

	case repoEventMsg:
		m.refresh()
		return m, waitForEvent(m.events)

	case pinCreatedMsg:
		m.pending = max(m.pending-1, 0)
		m.refresh()
		m.setNotice(fmt.Sprintf("Pinned %s", truncate(msg.pin.Address, 60)), false)
		return m, nil

	case activityMsg:
		m.setActivity(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.showActivity {
		return m.renderActivity()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.mode != modeBrowse {
		return m.handleInputKey(msg)
	}

	if m.showActivity {
		return m.handleActivityKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.focus == focusMap {
			m.focus = focusList
		} else {
			m.focus = focusMap
		}
		return m, nil

	case key.Matches(msg, m.keys.Activity):
		m.showActivity = true
		return m, loadActivityCmd(m.logFile)

	case key.Matches(msg, m.keys.Escape):
		if m.drafts != nil && m.drafts.Discard() {
			m.setNotice("Draft discarded", false)
			return m, nil
		}
		if m.sel != nil {
			m.sel.Clear()
		}
		return m, nil

	case key.Matches(msg, m.keys.ResetView):
		m.proj = newProjection(m.home, m.proj.width, m.proj.height)
		m.centerCursor()
		return m, nil
	}

	if m.focus == focusList {
		return m.handleListKey(msg)
	}
	return m.handleMapKey(msg)
}

// handleMapKey moves the crosshair, pans and zooms, and drops drafts.
func (m Model) handleMapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	panCols := max(m.proj.width/4, 1)
	panRows := max(m.proj.height/4, 1)

	switch {
	case key.Matches(msg, m.keys.CursorUp):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.CursorDown):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.CursorLeft):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.CursorRight):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.keys.PanUp):
		m.proj = m.proj.pan(0, -panRows)
	case key.Matches(msg, m.keys.PanDown):
		m.proj = m.proj.pan(0, panRows)
	case key.Matches(msg, m.keys.PanLeft):
		m.proj = m.proj.pan(-panCols, 0)
	case key.Matches(msg, m.keys.PanRight):
		m.proj = m.proj.pan(panCols, 0)
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoomAtCursor(1)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoomAtCursor(-1)
	case key.Matches(msg, m.keys.Place):
		if p, ok := m.pinUnderCursor(); ok {
			m.selectPin(p)
			return m, nil
		}
		return m.placeDraft()
	case key.Matches(msg, m.keys.Remark):
		if p, ok := m.markerTarget(); ok {
			return m.editRemarks(p)
		}
	case key.Matches(msg, m.keys.Delete):
		if p, ok := m.markerTarget(); ok {
			m.deletePin(p)
		}
	}
	return m, nil
}

// pinUnderCursor returns the pin drawn at the crosshair. When several pins
// share the cell the latest one wins.
func (m Model) pinUnderCursor() (pin.Pin, bool) {
	pins := m.snapshot.Pins
	for i := len(pins) - 1; i >= 0; i-- {
		col, row, ok := m.proj.cell(pins[i].Lat, pins[i].Lng)
		if ok && col == m.cursorCol && row == m.cursorRow {
			return pins[i], true
		}
	}
	return pin.Pin{}, false
}

// markerTarget is the pin map-pane actions apply to: the marker under the
// crosshair, else the selected pin.
func (m Model) markerTarget() (pin.Pin, bool) {
	if p, ok := m.pinUnderCursor(); ok {
		return p, true
	}
	if m.sel != nil {
		return m.sel.Pin()
	}
	return pin.Pin{}, false
}

// handleListKey navigates the pin list and edits or deletes pins.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pins := m.snapshot.Pins
	if len(pins) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.listRow > 0 {
			m.listRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.listRow < len(pins)-1 {
			m.listRow++
		}
	case key.Matches(msg, m.keys.Top):
		m.listRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.listRow = len(pins) - 1
	case key.Matches(msg, m.keys.Select):
		m.selectPin(pins[m.listRow])
	case key.Matches(msg, m.keys.Remark):
		return m.editRemarks(pins[m.listRow])
	case key.Matches(msg, m.keys.Delete):
		m.deletePin(pins[m.listRow])
	}
	return m, nil
}

// handleInputKey drives the draft and remarks editors.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.mode == modeDraft && m.drafts != nil {
			m.drafts.Discard()
		}
		return m.quit()

	case tea.KeyEsc:
		if m.mode == modeDraft {
			if m.drafts != nil {
				m.drafts.Discard()
			}
			m.setNotice("Draft discarded", false)
		}
		m.closeEditor()
		return m, nil

	case tea.KeyTab:
		// The draft stays on the map; dropping another replaces it.
		if m.mode == modeDraft {
			m.mode = modeBrowse
			m.focus = focusMap
			m.input.Blur()
			m.setNotice("Draft parked; enter drops it somewhere else, esc discards it", false)
			return m, nil
		}

	case tea.KeyEnter:
		if m.mode == modeDraft {
			return m.confirmDraft()
		}
		return m.saveRemarks()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeDraft && m.drafts != nil {
		m.drafts.SetRemarks(m.input.Value())
	}
	return m, cmd
}

func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit) && msg.Type == tea.KeyCtrlC:
		return m.quit()
	case key.Matches(msg, m.keys.Activity), key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.showActivity = false
		return m, nil
	}
	var cmd tea.Cmd
	m.activity, cmd = m.activity.Update(msg)
	return m, cmd
}

func (m Model) placeDraft() (tea.Model, tea.Cmd) {
	if m.drafts == nil {
		return m, nil
	}
	lat, lng := m.proj.coord(m.cursorCol, m.cursorRow)
	_, replaced := m.drafts.Place(lat, lng)
	m.mode = modeDraft
	m.input.Reset()
	if replaced {
		m.setNotice("Previous draft discarded", false)
	} else {
		m.setNotice(fmt.Sprintf("New pin at %s", formatCoord(lat, lng)), false)
	}
	return m, m.input.Focus()
}

func (m Model) confirmDraft() (tea.Model, tea.Cmd) {
	m.drafts.SetRemarks(m.input.Value())
	draft, ok := m.drafts.Release()
	m.closeEditor()
	if !ok {
		return m, nil
	}
	m.pending++
	m.setNotice(fmt.Sprintf("Looking up address for %s", formatCoord(draft.Lat, draft.Lng)), false)
	return m, createCmd(m.ctx, m.repo, draft)
}

func (m Model) saveRemarks() (tea.Model, tea.Cmd) {
	id, remarks := m.editing, m.input.Value()
	m.closeEditor()
	if _, err := m.repo.Update(id, remarks); err != nil {
		m.logger.Warn("update remarks failed", "pin", id.String(), "error", err)
		m.setNotice("Pin no longer exists", true)
		m.refresh()
		return m, nil
	}
	m.refresh()
	m.setNotice("Remarks saved", false)
	return m, nil
}

func (m *Model) closeEditor() {
	m.mode = modeBrowse
	m.editing = ""
	m.input.Blur()
	m.input.Reset()
}

func (m Model) editRemarks(p pin.Pin) (tea.Model, tea.Cmd) {
	m.mode = modeRemarks
	m.editing = p.ID
	m.input.SetValue(p.Remarks)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m *Model) deletePin(p pin.Pin) {
	m.repo.Delete(p.ID)
	m.refresh()
	m.setNotice(fmt.Sprintf("Deleted %s", truncate(p.Label(), 40)), false)
}

func (m *Model) selectPin(p pin.Pin) {
	if m.sel == nil || !m.sel.Select(p.ID) {
		return
	}
	for i, sp := range m.snapshot.Pins {
		if sp.ID == p.ID {
			m.listRow = i
			break
		}
	}
	m.proj = m.proj.centerOn(p.Lat, p.Lng)
	m.centerCursor()
	m.setNotice(fmt.Sprintf("%s | %s", truncate(p.Label(), 40), truncate(p.Address, 60)), false)
}

func (m *Model) moveCursor(dc, dr int) {
	col, row := m.cursorCol+dc, m.cursorRow+dr
	// Pushing the crosshair past an edge scrolls the map instead.
	if col < 0 || col >= m.proj.width {
		m.proj = m.proj.pan(dc, 0)
		col = m.cursorCol
	}
	if row < 0 || row >= m.proj.height {
		m.proj = m.proj.pan(0, dr)
		row = m.cursorRow
	}
	m.cursorCol, m.cursorRow = col, row
}

func (m *Model) zoomAtCursor(delta int) {
	lat, lng := m.proj.coord(m.cursorCol, m.cursorRow)
	m.proj = m.proj.zoomBy(delta).centerOn(lat, lng)
	m.centerCursor()
}

func (m *Model) centerCursor() {
	m.cursorCol, m.cursorRow = m.proj.midCol(), m.proj.midRow()
}

// refresh re-reads the repository and keeps the list cursor in range.
func (m *Model) refresh() {
	if m.repo == nil {
		return
	}
	m.snapshot = m.repo.Snapshot()
	if m.listRow >= len(m.snapshot.Pins) {
		m.listRow = max(len(m.snapshot.Pins)-1, 0)
	}
}

func (m *Model) setNotice(text string, alert bool) {
	m.notice = text
	m.alert = alert
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.savePrefs()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

// savePrefs persists the theme and current viewport. Failures are logged.
func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	v := m.proj.view()
	p := prefs.Prefs{
		Theme: m.theme.Name,
		Map:   &prefs.Viewport{CenterLat: v.CenterLat, CenterLng: v.CenterLng, Zoom: v.Zoom},
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderBody())
	b.WriteString("\n")

	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	b.WriteString(m.renderFooter())

	return b.String()
}

// Messages

type repoEventMsg state.Event

type pinCreatedMsg struct {
	pin pin.Pin
}

// Commands

func waitForEvent(feed *eventFeed) tea.Cmd {
	if feed == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-feed.ch
		if !ok {
			return nil
		}
		return repoEventMsg(ev)
	}
}

func createCmd(ctx context.Context, repo *state.Repository, d pin.Draft) tea.Cmd {
	return func() tea.Msg {
		return pinCreatedMsg{pin: repo.Create(ctx, d.Lat, d.Lng, d.Remarks)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	defer func() {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
	}()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	if _, err := p.Run(); err != nil {
		// Cancellation (SIGINT/SIGTERM) is a normal shutdown.
		if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
