package pin

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrNotFound is returned when an operation names a pin id that is not in
// the collection.
var ErrNotFound = errors.New("pin not found")

// ID identifies a pin for its whole lifetime. IDs are opaque and never reused.
type ID string

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}

// Short returns a display prefix of the id.
func (id ID) Short() string {
	const n = 8
	s := string(id)
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// UnmarshalJSON accepts both string ids and the numeric millisecond
// timestamps used by older saved collections.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("pin id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Pin is a persisted point of interest.
type Pin struct {
	ID      ID      `json:"id"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
	Remarks string  `json:"remarks"`
}

// Label returns the text shown for the pin in lists.
func (p Pin) Label() string {
	if strings.TrimSpace(p.Remarks) == "" {
		return "No remarks"
	}
	return p.Remarks
}

// Draft is a pending map click that has not been confirmed as a Pin.
type Draft struct {
	Lat     float64
	Lng     float64
	Remarks string
}

// ValidateCoordinates reports whether lat/lng are a usable WGS84 position.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return fmt.Errorf("coordinates must be numbers")
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", lng)
	}
	return nil
}

// NormalizeCoordinates maps any float pair onto a storable position: NaN
// becomes 0, latitude is clamped to [-90, 90], an infinite longitude is
// clamped to ±180 and any other out-of-range longitude is wrapped. It
// reports whether the input was changed.
func NormalizeCoordinates(lat, lng float64) (float64, float64, bool) {
	inLat, inLng := lat, lng
	if math.IsNaN(lat) {
		lat = 0
	}
	if math.IsNaN(lng) {
		lng = 0
	}
	lat = math.Max(-90, math.Min(90, lat))
	switch {
	case math.IsInf(lng, 1):
		lng = 180
	case math.IsInf(lng, -1):
		lng = -180
	case lng < -180 || lng > 180:
		lng = math.Mod(lng+180, 360)
		if lng < 0 {
			lng += 360
		}
		lng -= 180
	}
	changed := lat != inLat || lng != inLng
	return lat, lng, changed
}

// Clone returns a copy of pins that shares no backing array with the input.
func Clone(pins []Pin) []Pin {
	if len(pins) == 0 {
		return nil
	}
	dup := make([]Pin, len(pins))
	copy(dup, pins)
	return dup
}
