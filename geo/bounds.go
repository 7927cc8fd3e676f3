package geo

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

const earthRadiusMeters = 6371010.0

// Rect is a latitude/longitude bounding rectangle.
type Rect struct {
	South float64
	West  float64
	North float64
	East  float64
}

// IsValid reports whether the rectangle spans any area at all. A rectangle
// collapsed to a point or line cannot be fitted to, so the caller should fall
// back to a center/zoom view.
func (r Rect) IsValid() bool {
	return r.North > r.South && r.East > r.West
}

func (r Rect) Center() Point {
	return Point{
		Lat: (r.South + r.North) / 2,
		Lng: (r.West + r.East) / 2,
	}
}

// BoundsOf computes the bounding rectangle of a zone payload. Malformed
// payloads error; callers are expected to fall back, never to propagate.
func BoundsOf(raw json.RawMessage) (Rect, error) {
	rings, err := RingsOf(raw)
	if err != nil {
		return Rect{}, err
	}
	bound := s2.EmptyRect()
	for _, ring := range rings {
		for _, pos := range ring {
			if len(pos) < 2 {
				return Rect{}, fmt.Errorf("position with %d coordinates", len(pos))
			}
			// GeoJSON positions are [lng, lat].
			bound = bound.AddPoint(s2.LatLngFromDegrees(pos[1], pos[0]))
		}
	}
	if bound.IsEmpty() {
		return Rect{}, fmt.Errorf("geometry has no positions")
	}
	return Rect{
		South: bound.Lo().Lat.Degrees(),
		West:  bound.Lo().Lng.Degrees(),
		North: bound.Hi().Lat.Degrees(),
		East:  bound.Hi().Lng.Degrees(),
	}, nil
}

// CenterOf derives a display center from a zone payload. The second return
// is false when the geometry yields no usable bounds.
func CenterOf(raw json.RawMessage) (Point, bool) {
	b, err := BoundsOf(raw)
	if err != nil || !b.IsValid() {
		return Point{}, false
	}
	return b.Center(), true
}

// AreaOf returns the surface area of a zone payload in square meters,
// summed over its rings (drawn zones carry no holes). Drawing tools emit
// rings in either winding, so an inverted loop is flipped rather than
// rejected.
func AreaOf(raw json.RawMessage) (float64, bool) {
	rings, err := RingsOf(raw)
	if err != nil || len(rings) == 0 {
		return 0, false
	}
	total := 0.0
	for _, ring := range rings {
		if len(ring) < 4 {
			continue
		}
		pts := make([]s2.Point, 0, len(ring)-1)
		for i, pos := range ring {
			// golang/geo does not like having the loop end in its start point.
			if i == len(ring)-1 {
				continue
			}
			if len(pos) < 2 {
				return 0, false
			}
			pts = append(pts, s2.PointFromLatLng(s2.LatLngFromDegrees(pos[1], pos[0])))
		}
		area := s2.LoopFromPoints(pts).Area()
		if area > 2*math.Pi {
			area = 4*math.Pi - area
		}
		total += area * earthRadiusMeters * earthRadiusMeters
	}
	if total <= 0 {
		return 0, false
	}
	return total, true
}
