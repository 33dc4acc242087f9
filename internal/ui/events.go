package ui

import (
	"sync"

	"github.com/five82/pinmap/internal/state"
)

// eventFeed carries repository events into the Bubble Tea loop. Sends never
// block and are dropped once the feed is closed or full; the view re-reads
// the whole snapshot on every event, so the next one covers a dropped one.
type eventFeed struct {
	mu     sync.Mutex
	ch     chan state.Event
	closed bool
}

func newEventFeed(size int) *eventFeed {
	return &eventFeed{ch: make(chan state.Event, size)}
}

func (f *eventFeed) send(ev state.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.ch <- ev:
	default:
	}
}

// close releases any waitForEvent command still blocked on the feed. It is
// safe to call more than once.
func (f *eventFeed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.ch)
}
