// Package zonewidget holds the core state for a map zone editor/viewer:
// an ordered, capacity-bounded set of drawn zones, an edit/view mode gate,
// and the JSON export envelope the two widgets exchange.
package zonewidget

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Version is the export envelope format version.
const Version = 1

const (
	// DefaultLimit is the zone-count cap when a host configures none.
	DefaultLimit = 4
	// DefaultZoom is used for zones imported without a usable zoom level.
	DefaultZoom = 14
)

// FallbackCenter is the view center of last resort, used when a zone carries
// no center and its geometry yields no bounds.
var FallbackCenter = LatLng{Lat: 51.505, Lng: -0.09}

// LatLng is a WGS84 coordinate. On the wire it is a [latitude, longitude]
// pair, matching the export file format.
type LatLng struct {
	Lat float64
	Lng float64
}

func (l LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{l.Lat, l.Lng})
}

func (l *LatLng) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("center must be a [lat, lng] pair, got %d elements", len(pair))
	}
	l.Lat, l.Lng = pair[0], pair[1]
	return nil
}

// Zone is one drawn region plus its display metadata.
type Zone struct {
	// ID is an opaque token assigned at creation and preserved across
	// export/import, never recomputed.
	ID string `json:"id"`
	// CreatedAt is milliseconds since the Unix epoch.
	CreatedAt int64 `json:"createdAt"`
	// GeoJSON is the geometry payload, a single Feature with Polygon
	// geometry in practice. The store treats it as an opaque blob.
	GeoJSON json.RawMessage `json:"geojson"`
	// Center overrides the derived view center when present.
	Center *LatLng `json:"center,omitempty"`
	Zoom   int     `json:"zoom"`
}

// Clone returns a deep copy, so callers can hand out zones without
// aliasing the store's backing data.
func (z Zone) Clone() Zone {
	out := z
	if z.GeoJSON != nil {
		out.GeoJSON = append(json.RawMessage(nil), z.GeoJSON...)
	}
	if z.Center != nil {
		c := *z.Center
		out.Center = &c
	}
	return out
}

// ExportFilename returns the dated name for an export file,
// e.g. zones_2026-08-29T120000Z.json.
func ExportFilename(t time.Time) string {
	return "zones_" + strings.ReplaceAll(t.UTC().Format(time.RFC3339), ":", "") + ".json"
}
