package zonewidget

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/A01L/ZoneWidget/clock"
)

// Meta carries the widget configuration recorded alongside an export.
type Meta struct {
	Limit  int     `json:"limit"`
	Center *LatLng `json:"center,omitempty"`
	Zoom   int     `json:"zoom"`
}

// Envelope is the versioned wrapper written to export files and served to
// viewers.
type Envelope struct {
	Version    int    `json:"version"`
	ExportedAt string `json:"exportedAt"`
	Meta       Meta   `json:"meta"`
	Zones      []Zone `json:"zones"`
}

// MarshalIndent renders the envelope the way export files are written:
// pretty-printed, two-space indent.
func (e Envelope) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// Encode wraps a verbatim snapshot of the given zones in an envelope. The
// clock stamps exportedAt; nil means the system clock.
func Encode(zones []Zone, meta Meta, clk clock.Clock) Envelope {
	if clk == nil {
		clk = clock.NewSystem()
	}
	out := make([]Zone, len(zones))
	for i := range zones {
		out[i] = zones[i].Clone()
	}
	return Envelope{
		Version:    Version,
		ExportedAt: clk.Now().UTC().Format(time.RFC3339),
		Meta:       meta,
		Zones:      out,
	}
}

// CenterDeriver computes a display center from a geometry payload. The geo
// package provides the usual implementation; decode falls back to
// FallbackCenter when it declines.
type CenterDeriver func(geojson json.RawMessage) (LatLng, bool)

// DecodeOptions tune Decode. The zero value is usable: no derivation
// (fallback center for centerless zones) and the system clock.
type DecodeOptions struct {
	DeriveCenter CenterDeriver
	Clock        clock.Clock
}

// zoneWire is the loose shape accepted on import. Ids and timestamps in the
// wild come from hand-edited or re-exported files, so createdAt and zoom are
// coerced rather than strictly typed.
type zoneWire struct {
	ID        string          `json:"id"`
	CreatedAt interface{}     `json:"createdAt"`
	GeoJSON   json.RawMessage `json:"geojson"`
	Center    []float64       `json:"center"`
	Zoom      interface{}     `json:"zoom"`
}

var jsonNull = []byte("null")

func (w *zoneWire) hasGeometry() bool {
	trimmed := bytes.TrimSpace(w.GeoJSON)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, jsonNull)
}

// Decode parses either a bare zone array or an envelope-shaped object with a
// zones array. The whole input is rejected if any element lacks a geometry
// payload; partial imports are deliberately not performed. The result is
// truncated to the first limit entries (limit <= 0 means unbounded, the
// viewer path).
func Decode(data []byte, limit int, opts DecodeOptions) ([]Zone, error) {
	clk := opts.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}

	wires, err := decodeWires(data)
	if err != nil {
		return nil, err
	}

	// Validation runs over every element, including ones past the limit:
	// a malformed entry rejects the batch whether or not it would be kept.
	for i := range wires {
		if !wires[i].hasGeometry() {
			return nil, fmt.Errorf("%w (element %d)", ErrMissingGeometry, i)
		}
	}

	if limit > 0 && len(wires) > limit {
		wires = wires[:limit]
	}

	now := clk.Now().UnixMilli()
	zones := make([]Zone, 0, len(wires))
	for i := range wires {
		w := &wires[i]
		z := Zone{
			ID:        w.ID,
			CreatedAt: coerceMillis(w.CreatedAt, now),
			GeoJSON:   append(json.RawMessage(nil), w.GeoJSON...),
			Zoom:      coerceZoom(w.Zoom),
		}
		if z.ID == "" {
			z.ID = NewZoneID()
		}
		if len(w.Center) == 2 {
			z.Center = &LatLng{Lat: w.Center[0], Lng: w.Center[1]}
		} else {
			c := FallbackCenter
			if opts.DeriveCenter != nil {
				if derived, ok := opts.DeriveCenter(z.GeoJSON); ok {
					c = derived
				}
			}
			z.Center = &c
		}
		zones = append(zones, z)
	}
	return zones, nil
}

func decodeWires(data []byte) ([]zoneWire, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidFormat)
	}
	switch trimmed[0] {
	case '[':
		var wires []zoneWire
		if err := json.Unmarshal(trimmed, &wires); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return wires, nil
	case '{':
		var obj struct {
			Zones json.RawMessage `json:"zones"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		if len(obj.Zones) == 0 || bytes.Equal(bytes.TrimSpace(obj.Zones), jsonNull) {
			return nil, fmt.Errorf("%w: no zones array", ErrInvalidFormat)
		}
		var wires []zoneWire
		if err := json.Unmarshal(obj.Zones, &wires); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return wires, nil
	default:
		return nil, fmt.Errorf("%w: expected array or object", ErrInvalidFormat)
	}
}

func coerceMillis(v interface{}, def int64) int64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return def
		}
		return int64(t)
	case string:
		if n, err := strconv.ParseFloat(t, 64); err == nil {
			return int64(n)
		}
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts.UnixMilli()
		}
	}
	return def
}

func coerceZoom(v interface{}) int {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
			return DefaultZoom
		}
		return int(t)
	case string:
		if n, err := strconv.Atoi(t); err == nil && n > 0 {
			return n
		}
	}
	return DefaultZoom
}
