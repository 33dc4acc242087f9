package state

import (
	"context"
	"sync"

	"github.com/five82/pinmap/internal/pin"
)

// DraftState is the state of the draft controller.
type DraftState int

const (
	DraftEmpty DraftState = iota
	DraftEditing
)

func (s DraftState) String() string {
	if s == DraftEditing {
		return "editing"
	}
	return "empty"
}

// Drafts holds at most one unsaved pin candidate.
//
// A map click while a draft is being edited replaces that draft outright;
// Place hands the replaced draft back so a view can tell the user what was
// dropped.
type Drafts struct {
	repo *Repository

	mu    sync.Mutex
	draft pin.Draft
	state DraftState
}

// NewDrafts returns an empty draft controller that confirms into repo.
func NewDrafts(repo *Repository) *Drafts {
	return &Drafts{repo: repo}
}

// Place starts a new draft at lat/lng with empty remarks; coordinates are
// normalized onto a storable position. If a draft was already being edited
// it is discarded and returned.
func (d *Drafts) Place(lat, lng float64) (replaced pin.Draft, hadDraft bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	replaced, hadDraft = d.draft, d.state == DraftEditing
	lat, lng, _ = pin.NormalizeCoordinates(lat, lng)
	d.draft = pin.Draft{Lat: lat, Lng: lng}
	d.state = DraftEditing
	return replaced, hadDraft
}

// SetRemarks edits the draft's remarks. It reports false when there is no
// draft.
func (d *Drafts) SetRemarks(remarks string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != DraftEditing {
		return false
	}
	d.draft.Remarks = remarks
	return true
}

// Current returns the draft being edited, if any.
func (d *Drafts) Current() (pin.Draft, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft, d.state == DraftEditing
}

// State returns the controller state.
func (d *Drafts) State() DraftState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Discard drops the draft without side effects. It reports whether a draft
// existed.
func (d *Drafts) Discard() bool {
	_, ok := d.Release()
	return ok
}

// Release takes the draft out of the controller, leaving it Empty.
func (d *Drafts) Release() (pin.Draft, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != DraftEditing {
		return pin.Draft{}, false
	}
	draft := d.draft
	d.draft = pin.Draft{}
	d.state = DraftEmpty
	return draft, true
}

// Confirm promotes the draft to a pin. The controller is Empty afterwards
// whatever the address lookup produced. It reports false when there was no
// draft to confirm.
func (d *Drafts) Confirm(ctx context.Context) (pin.Pin, bool) {
	draft, ok := d.Release()
	if !ok {
		return pin.Pin{}, false
	}
	return d.repo.Create(ctx, draft.Lat, draft.Lng, draft.Remarks), true
}
