// Package ui provides the terminal map for pinmap.
//
// The UI is a Bubble Tea program with two panes. The map pane draws pins on
// an equirectangular grid around the current centre and zoom; a crosshair
// stands in for the mouse, and pressing enter drops a draft pin at the
// coordinate under it. The list pane shows every pin as its remarks (or
// "No remarks") above its resolved address.
//
// # Event Flow
//
//  1. New subscribes to the repository and forwards events into a channel.
//  2. waitForEvent turns each event into a message; Update re-reads the
//     snapshot and re-arms the wait.
//  3. Confirming a draft releases it from the draft controller at once and
//     runs the address lookup in a command, so the UI never blocks on the
//     geocoder. The pin appears when the lookup settles.
//
// # Key Bindings
//
//   - arrows: move crosshair; H/J/K/L pan; +/- zoom
//   - enter: select the marker under the crosshair or drop a pin (map),
//     select the entry (list)
//   - r: edit remarks, x: delete (marker, selected pin or list entry)
//   - esc: clear selection
//   - tab: switch panes, a: activity log, T: theme, q: quit
//
// The theme and last viewport are written to the prefs file on theme change
// and on quit.
package ui
