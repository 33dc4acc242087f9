// Package app is the composition root for pinmap.
//
// Open wires configuration, logging, the pin store, the geocoder and the
// repository into a Session; the CLI commands and the TUI both start from
// one. Run adds the pieces only the interactive map needs:
//
//  1. Load config (~/.config/pinmap/config.toml) and open the JSON log file
//  2. Open the store backend (json file or bbolt) and load the collection
//  3. Build the Nominatim client used to resolve addresses
//  4. Start the save retrier, which re-flushes after a failed write-through
//  5. Load prefs for theme and last viewport, then block in ui.Run
//
// # Error Handling
//
// Config, store and logging failures during Open are fatal and returned.
// Once running, geocoder and persistence failures are logged and surfaced
// in the UI but never stop the program.
package app
