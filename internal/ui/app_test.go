package ui

import (
	"context"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pinmap/internal/geocode"
	"github.com/five82/pinmap/internal/pin"
	"github.com/five82/pinmap/internal/prefs"
	"github.com/five82/pinmap/internal/state"
	"github.com/five82/pinmap/internal/store"
)

type harness struct {
	repo   *state.Repository
	sel    *state.Selection
	drafts *state.Drafts
	mem    *store.Memory
}

func newHarness(t *testing.T, seed ...pin.Pin) harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := store.NewMemory(seed...)
	resolver := geocode.ResolverFunc(func(context.Context, float64, float64) string {
		return "Downing Street, London"
	})
	repo := state.NewRepository(mem, resolver, logger)
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	sel := state.NewSelection(repo)
	t.Cleanup(sel.Close)
	return harness{repo: repo, sel: sel, drafts: state.NewDrafts(repo), mem: mem}
}

func (h harness) model(t *testing.T, prefsPath string) Model {
	t.Helper()
	m := New(Options{
		Repo:      h.repo,
		Selection: h.sel,
		Drafts:    h.drafts,
		PrefsPath: prefsPath,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(func() {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func keyType(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestModel_DropPinFromCrosshair(t *testing.T) {
	h := newHarness(t)
	m := h.model(t, "")
	wantLat, wantLng := m.proj.coord(m.cursorCol, m.cursorRow)

	m, _ = update(t, m, keyType(tea.KeyEnter))
	if m.mode != modeDraft {
		t.Fatalf("mode = %v, want draft", m.mode)
	}
	m, _ = update(t, m, runes("Home"))
	if d, ok := h.drafts.Current(); !ok || d.Remarks != "Home" {
		t.Fatalf("draft = %+v/%v, want remarks Home", d, ok)
	}

	m, cmd := update(t, m, keyType(tea.KeyEnter))
	if cmd == nil {
		t.Fatalf("confirm returned no command")
	}
	if m.pending != 1 {
		t.Fatalf("pending = %d, want 1", m.pending)
	}
	if h.drafts.State() != state.DraftEmpty {
		t.Fatalf("draft state = %v, want empty", h.drafts.State())
	}
	if n := len(h.repo.List()); n != 0 {
		t.Fatalf("pins before lookup = %d, want 0", n)
	}

	m, _ = update(t, m, cmd())
	if m.pending != 0 {
		t.Fatalf("pending = %d, want 0", m.pending)
	}
	if len(m.snapshot.Pins) != 1 {
		t.Fatalf("snapshot pins = %d, want 1", len(m.snapshot.Pins))
	}
	got := m.snapshot.Pins[0]
	if got.Remarks != "Home" || got.Address != "Downing Street, London" {
		t.Fatalf("pin = %+v", got)
	}
	if got.Lat != wantLat || got.Lng != wantLng {
		t.Fatalf("pin at %v,%v, want %v,%v", got.Lat, got.Lng, wantLat, wantLng)
	}
	if saved := h.mem.Load(); len(saved) != 1 {
		t.Fatalf("persisted pins = %d, want 1", len(saved))
	}
}

func TestModel_EscDiscardsDraft(t *testing.T) {
	h := newHarness(t)
	m := h.model(t, "")

	m, _ = update(t, m, keyType(tea.KeyEnter))
	m, _ = update(t, m, runes("q"))
	if m.input.Value() != "q" {
		t.Fatalf("input = %q, want typed text not a quit", m.input.Value())
	}
	m, _ = update(t, m, keyType(tea.KeyEsc))

	if m.mode != modeBrowse {
		t.Fatalf("mode = %v, want browse", m.mode)
	}
	if h.drafts.State() != state.DraftEmpty {
		t.Fatalf("draft survived esc")
	}
	if h.mem.Saves() != 0 {
		t.Fatalf("saves = %d, want 0", h.mem.Saves())
	}
}

func TestModel_SecondDropReplacesDraft(t *testing.T) {
	h := newHarness(t)
	m := h.model(t, "")

	m, _ = update(t, m, keyType(tea.KeyEnter))
	m, _ = update(t, m, runes("first"))
	m, _ = update(t, m, keyType(tea.KeyTab))
	if m.mode != modeBrowse || m.focus != focusMap {
		t.Fatalf("tab should park the draft and return to the map")
	}
	if d, _ := h.drafts.Current(); d.Remarks != "first" {
		t.Fatalf("parked draft = %+v", d)
	}
	m, _ = update(t, m, keyType(tea.KeyRight))
	m, _ = update(t, m, keyType(tea.KeyEnter))

	if m.notice != "Previous draft discarded" {
		t.Fatalf("notice = %q", m.notice)
	}
	d, ok := h.drafts.Current()
	if !ok || d.Remarks != "" {
		t.Fatalf("draft = %+v/%v, want fresh draft", d, ok)
	}
}

func TestModel_ListSelectEditDelete(t *testing.T) {
	h := newHarness(t,
		pin.Pin{ID: "a", Lat: 51.5, Lng: -0.1, Address: "A street"},
		pin.Pin{ID: "b", Lat: 48.85, Lng: 2.35, Address: "B street", Remarks: "Paris"},
	)
	m := h.model(t, "")

	m, _ = update(t, m, keyType(tea.KeyTab))
	if m.focus != focusList {
		t.Fatalf("focus = %v, want list", m.focus)
	}
	m, _ = update(t, m, runes("j"))
	m, _ = update(t, m, keyType(tea.KeyEnter))
	if !h.sel.IsSelected("b") {
		t.Fatalf("pin b not selected")
	}
	if v := m.proj.view(); math.Abs(v.CenterLat-48.85) > 1e-9 || math.Abs(v.CenterLng-2.35) > 1e-9 {
		t.Fatalf("map centre = %v,%v, want 48.85,2.35", v.CenterLat, v.CenterLng)
	}

	m, _ = update(t, m, runes("r"))
	if m.mode != modeRemarks || m.input.Value() != "Paris" {
		t.Fatalf("editor = %v %q, want remarks editor with Paris", m.mode, m.input.Value())
	}
	m, _ = update(t, m, runes("!"))
	m, _ = update(t, m, keyType(tea.KeyEnter))
	if p, err := h.repo.Get("b"); err != nil || p.Remarks != "Paris!" {
		t.Fatalf("Get(b) = %+v, %v", p, err)
	}

	m, _ = update(t, m, runes("x"))
	if h.repo.Contains("b") {
		t.Fatalf("pin b not deleted")
	}
	if _, ok := h.sel.Selected(); ok {
		t.Fatalf("selection should clear when the selected pin is deleted")
	}
	if m.listRow != 0 || len(m.snapshot.Pins) != 1 {
		t.Fatalf("listRow = %d pins = %d, want 0 and 1", m.listRow, len(m.snapshot.Pins))
	}
}

func TestModel_RepoEventsRefreshSnapshot(t *testing.T) {
	h := newHarness(t)
	m := h.model(t, "")

	p := h.repo.Create(context.Background(), 1, 2, "elsewhere")
	msg := waitForEvent(m.events)()
	m, cmd := update(t, m, msg)
	if cmd == nil {
		t.Fatalf("event handling should re-arm the wait")
	}
	if len(m.snapshot.Pins) != 1 || m.snapshot.Pins[0].ID != p.ID {
		t.Fatalf("snapshot = %+v, want created pin", m.snapshot.Pins)
	}
}

func TestModel_MapGlyphs(t *testing.T) {
	h := newHarness(t)
	m := h.model(t, "")

	lat, lng := m.proj.coord(3, 2)
	p := h.repo.Create(context.Background(), lat, lng, "")
	m.refresh()

	cells := m.mapGlyphs()
	if cells[2][3] != glyphPin {
		t.Fatalf("cell(3,2) = %v, want pin", cells[2][3])
	}
	if cells[m.cursorRow][m.cursorCol] != glyphCursor {
		t.Fatalf("crosshair missing")
	}

	h.sel.Select(p.ID)
	if got := m.mapGlyphs()[2][3]; got != glyphSelected {
		t.Fatalf("cell(3,2) = %v, want selected", got)
	}
}

func TestModel_ViewShowsPins(t *testing.T) {
	h := newHarness(t, pin.Pin{ID: "a", Lat: 51.5, Lng: -0.1, Address: "A street"})
	m := h.model(t, "")

	out := m.View()
	for _, want := range []string{"pinmap", "1 pins", "No remarks", "A street"} {
		if !strings.Contains(out, want) {
			t.Fatalf("View() missing %q", want)
		}
	}
}

func TestModel_QuitSavesPrefs(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := h.model(t, path)

	m, _ = update(t, m, runes("T"))
	m, _ = update(t, m, runes("+"))
	_, cmd := update(t, m, runes("q"))
	if cmd == nil {
		t.Fatalf("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("quit command did not quit")
	}

	got := prefs.Load(path)
	if got.Theme != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", got.Theme)
	}
	if got.Map == nil || got.Map.Zoom != 14 {
		t.Fatalf("viewport = %+v, want zoom 14", got.Map)
	}
}

func TestModel_SelectMarkerFromMap(t *testing.T) {
	h := newHarness(t,
		pin.Pin{ID: "a", Lat: 48.85, Lng: 2.35, Address: "A street"},
		pin.Pin{ID: "b", Lat: 51.505, Lng: -0.09, Address: "B street", Remarks: "Office"},
	)
	m := h.model(t, "")
	if p, ok := m.pinUnderCursor(); !ok || p.ID != "b" {
		t.Fatalf("pinUnderCursor = %+v/%v, want b", p, ok)
	}

	m, _ = update(t, m, keyType(tea.KeyEnter))
	if !h.sel.IsSelected("b") {
		t.Fatalf("enter on a marker should select it")
	}
	if m.mode != modeBrowse || h.drafts.State() != state.DraftEmpty {
		t.Fatalf("enter on a marker started a draft (mode %v)", m.mode)
	}
	if m.listRow != 1 {
		t.Fatalf("listRow = %d, want 1", m.listRow)
	}

	m, _ = update(t, m, runes("r"))
	if m.mode != modeRemarks || m.editing != "b" || m.input.Value() != "Office" {
		t.Fatalf("editor = %v %q %q, want remarks editor for b", m.mode, m.editing, m.input.Value())
	}
	m, _ = update(t, m, runes("!"))
	m, _ = update(t, m, keyType(tea.KeyEnter))
	if p, err := h.repo.Get("b"); err != nil || p.Remarks != "Office!" {
		t.Fatalf("Get(b) = %+v, %v", p, err)
	}

	// Move off the marker: actions fall back to the selected pin.
	m, _ = update(t, m, keyType(tea.KeyLeft))
	if _, ok := m.pinUnderCursor(); ok {
		t.Fatalf("crosshair still on a marker")
	}
	m, _ = update(t, m, runes("x"))
	if h.repo.Contains("b") {
		t.Fatalf("x on the map should delete the selected pin")
	}
	if !h.repo.Contains("a") || len(m.snapshot.Pins) != 1 {
		t.Fatalf("unrelated pin affected: %+v", m.snapshot.Pins)
	}

	// Nothing under the crosshair and nothing selected: x is a no-op.
	m, _ = update(t, m, runes("x"))
	if len(h.repo.List()) != 1 {
		t.Fatalf("x without a target deleted a pin")
	}
	m, _ = update(t, m, keyType(tea.KeyEnter))
	if m.mode != modeDraft {
		t.Fatalf("enter on an empty cell should drop a draft, mode = %v", m.mode)
	}
}

func TestModel_QuitReleasesEventWait(t *testing.T) {
	h := newHarness(t)
	m := h.model(t, "")
	wait := waitForEvent(m.events)

	_, _ = update(t, m, runes("q"))

	done := make(chan tea.Msg, 1)
	go func() { done <- wait() }()
	select {
	case msg := <-done:
		if msg != nil {
			t.Fatalf("wait after quit = %T, want nil", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event wait still blocked after quit")
	}

	// Mutations after the feed closed must not panic.
	h.repo.Create(context.Background(), 1, 1, "late")
	m.events.send(state.Event{Kind: state.EventCreated})
}
