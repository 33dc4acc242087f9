package state

import (
	"sync"

	"github.com/five82/pinmap/internal/pin"
)

// Selection tracks the one pin highlighted in the list and focused on the
// map. It never references a pin missing from the repository.
type Selection struct {
	repo        *Repository
	unsubscribe func()

	mu       sync.RWMutex
	selected pin.ID
	has      bool
}

// NewSelection returns an empty selection bound to repo.
func NewSelection(repo *Repository) *Selection {
	s := &Selection{repo: repo}
	s.unsubscribe = repo.Subscribe(s.onEvent)
	return s
}

// Select makes id the selection if it exists; otherwise it does nothing.
// It reports whether id is now selected.
func (s *Selection) Select(id pin.ID) bool {
	if !s.repo.Contains(id) {
		return false
	}
	s.mu.Lock()
	s.selected = id
	s.has = true
	s.mu.Unlock()

	// A Delete landing between the check and the set has already notified
	// us and found nothing to clear.
	if !s.repo.Contains(id) {
		s.clearIf(id)
		return false
	}
	return true
}

// clearIf clears the selection only if it is still id.
func (s *Selection) clearIf(id pin.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.has && s.selected == id {
		s.selected = ""
		s.has = false
	}
}

// Clear removes the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
	s.has = false
}

// Selected returns the selected id, if any.
func (s *Selection) Selected() (pin.ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.has
}

// IsSelected reports whether id is the current selection.
func (s *Selection) IsSelected(id pin.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.has && s.selected == id
}

// Pin returns the selected pin as currently stored in the repository.
func (s *Selection) Pin() (pin.Pin, bool) {
	id, ok := s.Selected()
	if !ok {
		return pin.Pin{}, false
	}
	p, err := s.repo.Get(id)
	if err != nil {
		return pin.Pin{}, false
	}
	return p, true
}

// Close detaches the selection from the repository.
func (s *Selection) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *Selection) onEvent(ev Event) {
	switch ev.Kind {
	case EventDeleted:
		s.clearIf(ev.Pin.ID)
	case EventLoaded:
		if id, ok := s.Selected(); ok && !s.repo.Contains(id) {
			s.clearIf(id)
		}
	}
}
