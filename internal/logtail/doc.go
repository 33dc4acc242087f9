// Package logtail reads the tail of pinmap's structured log for display.
//
// Read returns the last N raw lines of a file using a ring buffer, so
// memory stays O(N) regardless of file size. Entries parses those lines as
// slog JSON records and keeps the ones at or above a minimum level; the
// TUI's activity overlay uses it to surface geocoding fallbacks and failed
// saves without leaving the terminal.
//
// Lines that are not JSON (for example, a panic trace appended to the file)
// are kept as message-only entries rather than dropped.
package logtail
