package zonewidget

import (
	"encoding/json"

	"github.com/A01L/ZoneWidget/clock"
)

// Store holds the ordered zone set for one widget instance. Insertion order
// drives display order and numbering; size never exceeds the limit.
//
// All operations are synchronous and expect a single thread of control, so
// there is no internal locking.
type Store struct {
	limit int
	clk   clock.Clock
	zones []Zone
}

// NewStore returns an empty store. A limit of zero or less falls back to
// DefaultLimit; a nil clock falls back to the system clock.
func NewStore(limit int, clk clock.Clock) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Store{limit: limit, clk: clk}
}

func (s *Store) Limit() int {
	return s.limit
}

func (s *Store) Len() int {
	return len(s.zones)
}

// Create appends a new zone with a fresh id and the current timestamp.
// It fails with ErrLimitReached once the store is at capacity and with
// ErrMissingGeometry when the payload is absent.
func (s *Store) Create(geojson json.RawMessage, center *LatLng, zoom int) (Zone, error) {
	if len(s.zones) >= s.limit {
		return Zone{}, ErrLimitReached
	}
	if len(geojson) == 0 {
		return Zone{}, ErrMissingGeometry
	}
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	z := Zone{
		ID:        NewZoneID(),
		CreatedAt: s.clk.Now().UnixMilli(),
		GeoJSON:   append(json.RawMessage(nil), geojson...),
		Zoom:      zoom,
	}
	if center != nil {
		c := *center
		z.Center = &c
	}
	s.zones = append(s.zones, z)
	return z.Clone(), nil
}

// Delete removes the zone with the given id. A missing id is a no-op, not an
// error; the return value reports whether anything was removed.
func (s *Store) Delete(id string) bool {
	for i := range s.zones {
		if s.zones[i].ID == id {
			s.zones = append(s.zones[:i], s.zones[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceAll discards the current set and installs the given sequence,
// truncated to the first limit entries in input order.
func (s *Store) ReplaceAll(zones []Zone) {
	if len(zones) > s.limit {
		zones = zones[:s.limit]
	}
	next := make([]Zone, len(zones))
	for i := range zones {
		next[i] = zones[i].Clone()
	}
	s.zones = next
}

func (s *Store) Clear() {
	s.zones = nil
}

// List returns a detached snapshot; mutating it never touches the store.
func (s *Store) List() []Zone {
	out := make([]Zone, len(s.zones))
	for i := range s.zones {
		out[i] = s.zones[i].Clone()
	}
	return out
}

func (s *Store) Find(id string) (Zone, error) {
	for i := range s.zones {
		if s.zones[i].ID == id {
			return s.zones[i].Clone(), nil
		}
	}
	return Zone{}, ErrZoneNotFound
}
