// Package geo parses GeoJSON zone payloads and computes the geometry the
// widgets need: bounding rectangles, display centers, and surface areas.
package geo

import (
	"encoding/json"
	"fmt"
)

// Feature is a GeoJSON Feature. Properties are kept raw: the widgets never
// interpret them, only pass them through (or stamp derived values in).
type Feature struct {
	Type       string          `json:"type"`
	Properties json.RawMessage `json:"properties,omitempty"`
	Geometry   *Geometry       `json:"geometry"`
}

// Geometry is a GeoJSON geometry with coordinates left raw, since their
// nesting depth depends on the type.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lng float64
}

// payload accepts either a Feature or a bare geometry object.
type payload struct {
	Type        string          `json:"type"`
	Geometry    *Geometry       `json:"geometry"`
	Coordinates json.RawMessage `json:"coordinates"`
}

func geometryOf(raw json.RawMessage) (*Geometry, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse geometry payload: %w", err)
	}
	if p.Type == "Feature" {
		if p.Geometry == nil {
			return nil, fmt.Errorf("feature has no geometry")
		}
		return p.Geometry, nil
	}
	if len(p.Coordinates) > 0 {
		return &Geometry{Type: p.Type, Coordinates: p.Coordinates}, nil
	}
	return nil, fmt.Errorf("unsupported geometry payload %q", p.Type)
}

// Rings returns the linear rings of a Polygon or MultiPolygon geometry,
// flattened across polygons. Each ring is a list of [lng, lat] positions.
func (g *Geometry) Rings() ([][][]float64, error) {
	switch g.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("parse polygon coordinates: %w", err)
		}
		return rings, nil
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("parse multipolygon coordinates: %w", err)
		}
		var rings [][][]float64
		for _, p := range polys {
			rings = append(rings, p...)
		}
		return rings, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}

// RingsOf extracts the linear rings from an opaque zone payload.
func RingsOf(raw json.RawMessage) ([][][]float64, error) {
	g, err := geometryOf(raw)
	if err != nil {
		return nil, err
	}
	return g.Rings()
}
