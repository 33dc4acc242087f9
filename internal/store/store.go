package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/five82/pinmap/internal/pin"
)

// SlotName is the name of the persisted slot holding the pin collection.
const SlotName = "pins"

// Store is the durability boundary for the pin collection.
type Store interface {
	// Load returns the persisted collection, or an empty one when nothing
	// usable is stored.
	Load() []pin.Pin
	// Save overwrites the persisted collection with pins.
	Save(pins []pin.Pin) error
}

// Backend names accepted by Open.
const (
	BackendJSON = "json"
	BackendBolt = "bolt"
)

// Open returns the backend named by backend rooted at path. Callers must
// Close the returned closer when done.
func Open(backend, path string, logger *slog.Logger) (Store, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		s := NewFileStore(path, logger)
		return s, func() error { return nil }, nil
	case BackendBolt:
		s, err := OpenBolt(path, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func encode(pins []pin.Pin) ([]byte, error) {
	if pins == nil {
		pins = []pin.Pin{}
	}
	data, err := json.Marshal(pins)
	if err != nil {
		return nil, fmt.Errorf("marshal pins: %w", err)
	}
	return data, nil
}

// decode parses a stored blob. Records without an id are dropped and
// duplicate ids keep their first occurrence.
func decode(data []byte, logger *slog.Logger) []pin.Pin {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	var raw []pin.Pin
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("stored pins are corrupt; starting empty", "error", err)
		return nil
	}
	seen := make(map[pin.ID]struct{}, len(raw))
	out := make([]pin.Pin, 0, len(raw))
	for _, p := range raw {
		if strings.TrimSpace(string(p.ID)) == "" {
			logger.Warn("dropping stored pin without id", "lat", p.Lat, "lng", p.Lng)
			continue
		}
		if _, dup := seen[p.ID]; dup {
			logger.Warn("dropping duplicate stored pin", "pin_id", p.ID)
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func componentLogger(logger *slog.Logger, backend string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", "store", "backend", backend)
}
