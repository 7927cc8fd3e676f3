package geo

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/sjson"
)

// Rewind reverses the winding of every ring in place.
func Rewind(rings [][][]float64) {
	for j := range rings {
		for i := len(rings[j])/2 - 1; i >= 0; i-- {
			opp := len(rings[j]) - 1 - i
			rings[j][i], rings[j][opp] = rings[j][opp], rings[j][i]
		}
	}
}

// RewindFeature reverses the ring winding of a Polygon or MultiPolygon
// payload, leaving every other byte of the blob untouched.
func RewindFeature(raw json.RawMessage) (json.RawMessage, error) {
	g, err := geometryOf(raw)
	if err != nil {
		return nil, err
	}
	path := "coordinates"
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if p.Type == "Feature" {
		path = "geometry.coordinates"
	}
	switch g.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, err
		}
		Rewind(rings)
		return sjson.SetBytes(raw, path, rings)
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil {
			return nil, err
		}
		for k := range polys {
			Rewind(polys[k])
		}
		return sjson.SetBytes(raw, path, polys)
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}

// StampCenter writes a derived center into the feature's properties, the
// shape downstream tile stores expect (properties.center.lat/lon).
func StampCenter(raw json.RawMessage, c Point) (json.RawMessage, error) {
	out, err := sjson.SetBytes(raw, "properties.center.lat", c.Lat)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(out, "properties.center.lon", c.Lng)
}
