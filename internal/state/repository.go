package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/pinmap/internal/geocode"
	"github.com/five82/pinmap/internal/pin"
	"github.com/five82/pinmap/internal/store"
)

// EventKind identifies a repository change.
type EventKind int

const (
	EventLoaded EventKind = iota
	EventCreated
	EventUpdated
	EventDeleted
)

func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventCreated:
		return "created"
	case EventUpdated:
		return "updated"
	case EventDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Event describes a completed mutation. Pin is zero for EventLoaded.
type Event struct {
	Kind EventKind
	Pin  pin.Pin
}

// Snapshot is a point-in-time copy of the repository.
type Snapshot struct {
	Pins          []pin.Pin
	LastSaved     time.Time
	LastSaveError error
	SaveFailures  int // consecutive failed saves
}

// Degraded reports whether the latest write-through failed.
func (s Snapshot) Degraded() bool {
	return s.LastSaveError != nil
}

// ErrAlreadyInitialized is returned by a second call to Initialize.
var ErrAlreadyInitialized = errors.New("repository already initialized")

// Repository owns the canonical pin collection.
type Repository struct {
	store    store.Store
	resolver geocode.Resolver
	logger   *slog.Logger
	newID    func() pin.ID

	mu           sync.RWMutex
	pins         []pin.Pin
	initialized  bool
	lastSaved    time.Time
	lastSaveErr  error
	saveFailures int

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// NewRepository returns an empty repository backed by st and resolver.
func NewRepository(st store.Store, resolver geocode.Resolver, logger *slog.Logger) *Repository {
	if resolver == nil {
		resolver = geocode.ResolverFunc(func(context.Context, float64, float64) string {
			return geocode.FallbackAddress
		})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		store:    st,
		resolver: resolver,
		logger:   logger.With("component", "repository"),
		newID:    newPinID,
		subs:     make(map[int]func(Event)),
	}
}

func newPinID() pin.ID {
	id, err := uuid.NewV7()
	if err != nil {
		return pin.ID(uuid.NewString())
	}
	return pin.ID(id.String())
}

// Initialize replaces the in-memory collection with the persisted one.
func (r *Repository) Initialize() error {
	r.mu.Lock()
	if r.initialized {
		r.mu.Unlock()
		return ErrAlreadyInitialized
	}
	r.initialized = true
	var loaded []pin.Pin
	if r.store != nil {
		loaded = r.store.Load()
	}
	r.pins = pin.Clone(loaded)
	count := len(r.pins)
	r.mu.Unlock()

	r.logger.Info("pins loaded", "count", count)
	r.notify(Event{Kind: EventLoaded})
	return nil
}

// Create resolves the address for lat/lng, appends a new pin and persists
// the collection. It blocks for the duration of the address lookup; the pin
// becomes visible only once the lookup has settled. Coordinates that could
// not be stored (NaN, infinite, out of range) are normalized first, so
// Create never fails.
func (r *Repository) Create(ctx context.Context, lat, lng float64, remarks string) pin.Pin {
	if nLat, nLng, changed := pin.NormalizeCoordinates(lat, lng); changed {
		r.logger.Warn("coordinates out of range; normalized",
			"lat", fmt.Sprint(lat), "lng", fmt.Sprint(lng), "normalized_lat", nLat, "normalized_lng", nLng)
		lat, lng = nLat, nLng
	}
	address := r.resolver.Resolve(ctx, lat, lng)

	r.mu.Lock()
	p := pin.Pin{
		ID:      r.uniqueIDLocked(),
		Lat:     lat,
		Lng:     lng,
		Address: address,
		Remarks: remarks,
	}
	r.pins = append(r.pins, p)
	r.persistLocked()
	r.mu.Unlock()

	r.logger.Info("pin created", "pin_id", p.ID, "lat", lat, "lng", lng)
	r.notify(Event{Kind: EventCreated, Pin: p})
	return p
}

// Update replaces the remarks of pin id. It returns pin.ErrNotFound when id
// is not in the collection.
func (r *Repository) Update(id pin.ID, remarks string) (pin.Pin, error) {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return pin.Pin{}, fmt.Errorf("update %s: %w", id, pin.ErrNotFound)
	}
	r.pins[idx].Remarks = remarks
	p := r.pins[idx]
	r.persistLocked()
	r.mu.Unlock()

	r.logger.Info("pin updated", "pin_id", id)
	r.notify(Event{Kind: EventUpdated, Pin: p})
	return p, nil
}

// Delete removes pin id. Deleting an absent id is a no-op.
func (r *Repository) Delete(id pin.ID) {
	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return
	}
	removed := r.pins[idx]
	r.pins = append(r.pins[:idx:idx], r.pins[idx+1:]...)
	r.persistLocked()
	r.mu.Unlock()

	r.logger.Info("pin deleted", "pin_id", id)
	r.notify(Event{Kind: EventDeleted, Pin: removed})
}

// Flush writes the current collection through again and returns the
// outcome. It emits no event; it exists to retry after a failed save.
func (r *Repository) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persistLocked()
	return r.lastSaveErr
}

// Get returns pin id.
func (r *Repository) Get(id pin.ID) (pin.Pin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := r.indexLocked(id)
	if idx < 0 {
		return pin.Pin{}, fmt.Errorf("get %s: %w", id, pin.ErrNotFound)
	}
	return r.pins[idx], nil
}

// Contains reports whether id is in the collection.
func (r *Repository) Contains(id pin.ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexLocked(id) >= 0
}

// List returns the pins in insertion order.
func (r *Repository) List() []pin.Pin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return pin.Clone(r.pins)
}

// Snapshot returns a copy of the collection and the persistence status.
func (r *Repository) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := Snapshot{
		Pins:         pin.Clone(r.pins),
		LastSaved:    r.lastSaved,
		SaveFailures: r.saveFailures,
	}
	if r.lastSaveErr != nil {
		snap.LastSaveError = r.lastSaveErr
	}
	return snap
}

// Subscribe registers fn to be called after every completed mutation. The
// returned function removes the subscription.
func (r *Repository) Subscribe(fn func(Event)) func() {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	return func() {
		r.subMu.Lock()
		defer r.subMu.Unlock()
		delete(r.subs, id)
	}
}

func (r *Repository) notify(ev Event) {
	r.subMu.Lock()
	fns := make([]func(Event), 0, len(r.subs))
	// Deliver in subscription order.
	for i := 0; i < r.nextSub; i++ {
		if fn, ok := r.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	r.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (r *Repository) indexLocked(id pin.ID) int {
	for i := range r.pins {
		if r.pins[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) uniqueIDLocked() pin.ID {
	for {
		id := r.newID()
		if id != "" && r.indexLocked(id) < 0 {
			return id
		}
	}
}

// persistLocked writes the collection through to the store. Failures are
// recorded, not returned.
func (r *Repository) persistLocked() {
	if r.store == nil {
		return
	}
	if err := r.store.Save(pin.Clone(r.pins)); err != nil {
		r.lastSaveErr = err
		r.saveFailures++
		r.logger.Error("persist pins failed; keeping in-memory state", "error", err, "failures", r.saveFailures)
		return
	}
	r.lastSaveErr = nil
	r.saveFailures = 0
	r.lastSaved = time.Now()
}
