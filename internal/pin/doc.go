// Package pin defines the data model shared by every pinmap component.
//
// A Pin is a persisted point of interest: an immutable coordinate pair, the
// address resolved for it once at creation, and free-text remarks the user
// may edit any number of times. A Draft is the transient, unsaved candidate
// produced by a map click; it has no identity until it is confirmed.
//
// Only the state package mutates pins. Everything else receives copies.
package pin
