package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit         key.Binding
	Help         key.Binding
	CycleTheme   key.Binding
	Tab          key.Binding
	Activity     key.Binding
	Escape       key.Binding
	ResetView    key.Binding
	ConfirmInput key.Binding

	// Map
	CursorUp    key.Binding
	CursorDown  key.Binding
	CursorLeft  key.Binding
	CursorRight key.Binding
	PanUp       key.Binding
	PanDown     key.Binding
	PanLeft     key.Binding
	PanRight    key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	Place       key.Binding

	// List
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Select key.Binding
	Remark key.Binding
	Delete key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "Map/list focus"),
		),
		Activity: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Activity log"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Clear selection"),
		),
		ResetView: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "Reset view"),
		),
		ConfirmInput: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Save"),
		),

		// Map
		CursorUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "Cursor up"),
		),
		CursorDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "Cursor down"),
		),
		CursorLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "Cursor left"),
		),
		CursorRight: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "Cursor right"),
		),
		PanUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "Pan north"),
		),
		PanDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "Pan south"),
		),
		PanLeft: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H", "Pan west"),
		),
		PanRight: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L", "Pan east"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "Zoom out"),
		),
		Place: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "Drop/select pin"),
		),

		// List
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "Select pin"),
		),
		Remark: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Edit remarks"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "Delete pin"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.CursorUp, k.CursorDown, k.CursorLeft, k.CursorRight, k.Place},
		{k.PanUp, k.PanDown, k.PanLeft, k.PanRight, k.ZoomIn, k.ZoomOut, k.ResetView},
		{k.Up, k.Down, k.Top, k.Bottom, k.Select, k.Remark, k.Delete},
		{k.Tab, k.Escape, k.Activity, k.CycleTheme, k.Help, k.Quit},
	}
}

// mapHelp is the footer hint set while the map has focus.
func (k keyMap) mapHelp() []key.Binding {
	return []key.Binding{k.Place, k.Remark, k.Delete, k.ZoomIn, k.ZoomOut, k.Tab, k.Help, k.Quit}
}

// listHelp is the footer hint set while the pin list has focus.
func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Select, k.Remark, k.Delete, k.Escape, k.Tab, k.Help, k.Quit}
}

// inputHelp is the footer hint set while a remarks editor is open.
func (k keyMap) inputHelp(confirm string) []key.Binding {
	save := k.ConfirmInput
	save.SetHelp("enter", confirm)
	cancel := k.Escape
	cancel.SetHelp("esc", "Cancel")
	return []key.Binding{save, cancel}
}
