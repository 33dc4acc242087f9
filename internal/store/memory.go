package store

import (
	"sync"

	"github.com/five82/pinmap/internal/pin"
)

// Memory is an in-process Store. It is used for ephemeral sessions and
// tests; FailWith makes subsequent saves fail.
type Memory struct {
	mu    sync.Mutex
	pins  []pin.Pin
	saves int
	err   error
}

// NewMemory returns a Memory seeded with pins.
func NewMemory(pins ...pin.Pin) *Memory {
	return &Memory{pins: pin.Clone(pins)}
}

// Load returns a copy of the stored pins.
func (m *Memory) Load() []pin.Pin {
	m.mu.Lock()
	defer m.mu.Unlock()
	return pin.Clone(m.pins)
}

// Save replaces the stored pins unless a failure was injected.
func (m *Memory) Save(pins []pin.Pin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.pins = pin.Clone(pins)
	m.saves++
	return nil
}

// Saves reports how many saves succeeded.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FailWith makes Save return err until called again with nil.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
